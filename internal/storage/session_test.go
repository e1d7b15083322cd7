package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func sampleSession(id string) *SessionRecord {
	return &SessionRecord{
		ID:              id,
		StartedAt:       time.Now(),
		Status:          "running",
		DurationSeconds: 600,
		GameConfig:      json.RawMessage(`{"stroke_speed_max":4}`),
	}
}

func TestCreateAndGetSession(t *testing.T) {
	db := openTestDB(t)

	if err := db.CreateSession(sampleSession("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	rec, err := db.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if rec.Status != "running" {
		t.Errorf("status = %q, want running", rec.Status)
	}
	if rec.DurationSeconds != 600 {
		t.Errorf("duration = %v, want 600", rec.DurationSeconds)
	}
	if rec.EndedAt != nil {
		t.Error("EndedAt set on a running session")
	}

	var cfg map[string]float64
	if err := json.Unmarshal(rec.GameConfig, &cfg); err != nil {
		t.Fatalf("game config not valid JSON: %v", err)
	}
	if cfg["stroke_speed_max"] != 4 {
		t.Errorf("game config round-trip = %v", cfg)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetSession("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession(nope) error = %v, want ErrNotFound", err)
	}
}

func TestFinishSession(t *testing.T) {
	db := openTestDB(t)

	if err := db.CreateSession(sampleSession("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	err := db.FinishSession(&SessionRecord{
		ID:             "s1",
		Status:         "completed",
		ElapsedSeconds: 612.5,
		Finale:         "orgasm",
		TotalBeats:     900,
		Edges:          2,
		Ruins:          1,
		Orgasms:        1,
	})
	if err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}

	rec, err := db.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if rec.Status != "completed" || rec.Finale != "orgasm" {
		t.Errorf("status = %q, finale = %q", rec.Status, rec.Finale)
	}
	if rec.EndedAt == nil {
		t.Error("EndedAt not set by FinishSession")
	}
	if rec.TotalBeats != 900 || rec.Edges != 2 || rec.Ruins != 1 || rec.Orgasms != 1 {
		t.Errorf("counters = %d/%d/%d/%d", rec.TotalBeats, rec.Edges, rec.Ruins, rec.Orgasms)
	}
}

func TestFinishSession_NotFound(t *testing.T) {
	db := openTestDB(t)

	err := db.FinishSession(&SessionRecord{ID: "ghost", Status: "stopped"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishSession(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteSession(t *testing.T) {
	db := openTestDB(t)

	if err := db.CreateSession(sampleSession("s1")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	db.CreateTask(&TaskRecord{
		ID: "t1", SessionID: "s1", TaskID: "double_strokes",
		Title: "Double strokes", Category: "speed", Outcome: "pending",
		IssuedAt: time.Now(),
	})

	if err := db.DeleteSession("s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := db.GetSession("s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("session still present after delete")
	}

	// Task history goes with the session.
	tasks, err := db.ListTasks("s1")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("orphaned tasks remain: %d", len(tasks))
	}

	if err := db.DeleteSession("s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestListSessions(t *testing.T) {
	db := openTestDB(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := sampleSession(fmt.Sprintf("s%d", i))
		rec.StartedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.CreateSession(rec); err != nil {
			t.Fatalf("CreateSession %d failed: %v", i, err)
		}
	}

	// Newest first
	all, err := db.ListSessions(0, 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("ListSessions returned %d rows, want 5", len(all))
	}
	if all[0].ID != "s4" || all[4].ID != "s0" {
		t.Errorf("order = %q .. %q, want s4 .. s0", all[0].ID, all[4].ID)
	}

	page, err := db.ListSessions(2, 1)
	if err != nil {
		t.Fatalf("ListSessions with paging failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != "s3" || page[1].ID != "s2" {
		t.Errorf("page = %v", page)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)

	empty, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats on empty db failed: %v", err)
	}
	if empty.Sessions != 0 || empty.TotalBeats != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	for i, elapsed := range []float64{300, 450} {
		id := fmt.Sprintf("s%d", i)
		if err := db.CreateSession(sampleSession(id)); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		err := db.FinishSession(&SessionRecord{
			ID: id, Status: "completed", ElapsedSeconds: elapsed,
			TotalBeats: 100, Edges: 1, Ruins: 1, Orgasms: 1,
		})
		if err != nil {
			t.Fatalf("FinishSession failed: %v", err)
		}
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Sessions != 2 {
		t.Errorf("sessions = %d, want 2", stats.Sessions)
	}
	if stats.TotalSeconds != 750 {
		t.Errorf("total seconds = %v, want 750", stats.TotalSeconds)
	}
	if stats.TotalBeats != 200 || stats.TotalEdges != 2 {
		t.Errorf("totals = %+v", stats)
	}
	if stats.LongestSecond != 450 {
		t.Errorf("longest = %v, want 450", stats.LongestSecond)
	}
}
