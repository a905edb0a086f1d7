// Package tasks owns the task collection, assigns task ids and keeps the
// collection in sync with its line file.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/smarttask/internal/models"
)

// Repository stores tasks in insertion order. Returned values are copies.
type Repository interface {
	Load(ctx context.Context) error
	// Create assigns the next id to task and stores it. No other field is
	// touched.
	Create(ctx context.Context, task models.Task) (models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	// Update applies fn to the stored task and persists the result. If fn
	// returns an error nothing is changed.
	Update(ctx context.Context, id int64, fn func(*models.Task) error) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) []models.Task
	// NextID is the id the next Create will assign.
	NextID(ctx context.Context) int64
}
