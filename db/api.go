package db

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/convert"
	"github.com/termfx/bridgec/models"
)

// RunParams captures the conversion parameters persisted with a run.
type RunParams struct {
	IncludeList     []string          `json:"include_list,omitempty"`
	TrivialRequests []string          `json:"trivial_requests,omitempty"`
	Renames         map[string]string `json:"renames,omitempty"`
}

// SaveRun persists a completed conversion together with its extra-work
// queue, in declaration order.
func SaveRun(gdb *gorm.DB, input ast.Module, params RunParams, res *convert.Result) (*models.Run, error) {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input module: %w", err)
	}
	outputJSON, err := ast.MarshalItems(res.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output items: %w", err)
	}
	includes, _ := json.Marshal(params.IncludeList)
	requests, _ := json.Marshal(params.TrivialRequests)
	renames, _ := json.Marshal(params.Renames)

	digest := sha256.Sum256(inputJSON)
	now := time.Now()
	run := &models.Run{
		ID:              newID(),
		ModuleName:      input.Name,
		InputDigest:     hex.EncodeToString(digest[:]),
		IncludeList:     includes,
		TrivialRequests: requests,
		Renames:         renames,
		Output:          outputJSON,
		Diff:            res.Diff,
		Status:          "complete",
		CompletedAt:     &now,
	}

	for i, need := range res.Needs {
		payload, err := json.Marshal(need)
		if err != nil {
			return nil, fmt.Errorf("failed to encode work item %d: %w", i, err)
		}
		run.WorkItems = append(run.WorkItems, models.WorkItem{
			ID:       newID(),
			Seq:      i,
			Kind:     string(need.Kind),
			TypeName: need.Type.Name(),
			FnName:   need.Name,
			Payload:  payload,
			Status:   "pending",
		})
	}

	if err := gdb.Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	return run, nil
}

// ListWork returns a run's work items in declaration order. An empty runID
// lists pending items across all runs.
func ListWork(gdb *gorm.DB, runID string) ([]models.WorkItem, error) {
	var items []models.WorkItem
	q := gdb.Order("run_id, seq")
	if runID != "" {
		q = q.Where("run_id = ?", runID)
	} else {
		q = q.Where("status = ?", "pending")
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, nil
}

// ClaimWork marks the oldest pending work item claimed and returns it, or
// nil when the queue is empty.
func ClaimWork(gdb *gorm.DB) (*models.WorkItem, error) {
	var item models.WorkItem
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status = ?", "pending").
			Order("created_at, seq").First(&item).Error; err != nil {
			return err
		}
		now := time.Now()
		item.Status = "claimed"
		item.ClaimedAt = &now
		return tx.Save(&item).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim work item: %w", err)
	}
	return &item, nil
}

// CompleteWork marks a claimed work item done.
func CompleteWork(gdb *gorm.DB, id string) error {
	now := time.Now()
	res := gdb.Model(&models.WorkItem{}).Where("id = ?", id).
		Updates(map[string]any{"status": "done", "done_at": &now})
	if res.Error != nil {
		return fmt.Errorf("failed to complete work item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("work item %s not found", id)
	}
	return nil
}

// GetRun loads a run with its work items.
func GetRun(gdb *gorm.DB, id string) (*models.Run, error) {
	var run models.Run
	if err := gdb.Preload("WorkItems", func(q *gorm.DB) *gorm.DB {
		return q.Order("seq")
	}).First(&run, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return &run, nil
}

// ListRuns returns recent runs, newest first.
func ListRuns(gdb *gorm.DB, limit int) ([]models.Run, error) {
	var runs []models.Run
	q := gdb.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// newID returns a short random identifier, hex-encoded.
func newID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
