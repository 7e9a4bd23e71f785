// Package services - task tree validation
package services

import (
	"github.com/aethra/atlas/internal/errors"
	"github.com/aethra/atlas/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxTaskDepth caps the parent-chain walk so a corrupted tree cannot loop
// the request forever.
const maxTaskDepth = 100

// TaskService validates task tree structure
type TaskService struct {
	db *gorm.DB
}

// NewTaskService creates a task service
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// ValidateParent rejects parent assignments that would create a cycle.
// taskID is uuid.Nil for a task that has not been created yet. The store
// happily accepts self-referential foreign keys, so this is the only guard.
func (s *TaskService) ValidateParent(taskID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if taskID != uuid.Nil && *parentID == taskID {
		return errors.NewValidationError("parent_id", "a task cannot be its own parent")
	}

	current := *parentID
	for depth := 0; depth < maxTaskDepth; depth++ {
		var parent models.Task
		err := s.db.Select("id", "parent_id").First(&parent, "id = ?", current).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewValidationError("parent_id", "parent task does not exist")
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if taskID != uuid.Nil && *parent.ParentID == taskID {
			return errors.NewValidationError("parent_id", "parent assignment would create a cycle")
		}
		current = *parent.ParentID
	}
	return errors.NewValidationError("parent_id", "task tree is too deep")
}

// Subtree returns the task id and every descendant id, walking the tree
// level by level. The application deletes subtrees itself so all drivers
// behave the same regardless of FK enforcement.
func (s *TaskService) Subtree(taskID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{taskID}
	frontier := []uuid.UUID{taskID}
	for depth := 0; depth < maxTaskDepth && len(frontier) > 0; depth++ {
		var children []uuid.UUID
		err := s.db.Model(&models.Task{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}

// DeleteSubtree removes a task, its descendants, and their time entries.
func (s *TaskService) DeleteSubtree(taskID uuid.UUID) error {
	ids, err := s.Subtree(taskID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN ?", ids).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Task{}).Error
	})
}
