package services

import (
	"testing"

	"github.com/aethra/atlas/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTaskChain(t *testing.T, db *gorm.DB, depth int) []models.Task {
	t.Helper()
	project := models.Project{Name: "Chain project"}
	require.NoError(t, db.Create(&project).Error)

	tasks := make([]models.Task, depth)
	var parentID *uuid.UUID
	for i := range tasks {
		tasks[i] = models.Task{ProjectID: project.ID, Name: "chain", ParentID: parentID}
		require.NoError(t, db.Create(&tasks[i]).Error)
		parentID = &tasks[i].ID
	}
	return tasks
}

func TestValidateParentAcceptsNil(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)
	assert.NoError(t, service.ValidateParent(uuid.New(), nil))
}

func TestValidateParentRejectsSelf(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)

	id := uuid.New()
	err := service.ValidateParent(id, &id)
	assert.Error(t, err)
}

func TestValidateParentRejectsMissingParent(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)

	missing := uuid.New()
	err := service.ValidateParent(uuid.Nil, &missing)
	assert.Error(t, err)
}

func TestValidateParentRejectsCycle(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)
	chain := seedTaskChain(t, db, 3)

	// hanging the root under the leaf closes the loop
	leaf := chain[len(chain)-1]
	err := service.ValidateParent(chain[0].ID, &leaf.ID)
	assert.Error(t, err)
}

func TestValidateParentAcceptsDeepChain(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)
	chain := seedTaskChain(t, db, 10)

	// a new task under the leaf is fine
	leaf := chain[len(chain)-1]
	assert.NoError(t, service.ValidateParent(uuid.Nil, &leaf.ID))
}

func TestSubtreeCollectsAllDescendants(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)
	chain := seedTaskChain(t, db, 4)

	// a sibling branch under the second level
	branch := models.Task{
		ProjectID: chain[1].ProjectID,
		Name:      "branch",
		ParentID:  &chain[1].ID,
	}
	require.NoError(t, db.Create(&branch).Error)

	ids, err := service.Subtree(chain[1].ID)
	require.NoError(t, err)
	assert.Len(t, ids, 4) // chain[1..3] plus the branch
	assert.Contains(t, ids, branch.ID)
	assert.NotContains(t, ids, chain[0].ID)
}

func TestDeleteSubtreeRemovesDescendantsAndTimeEntries(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)
	chain := seedTaskChain(t, db, 3)

	user := models.User{Email: "worker@example.com"}
	require.NoError(t, db.Create(&user).Error)
	entry := models.TimeEntry{UserID: user.ID, TaskID: chain[2].ID, DurationMinutes: 30}
	require.NoError(t, db.Create(&entry).Error)

	require.NoError(t, service.DeleteSubtree(chain[0].ID))

	var taskCount, entryCount int64
	db.Model(&models.Task{}).Count(&taskCount)
	db.Model(&models.TimeEntry{}).Count(&entryCount)
	assert.Equal(t, int64(0), taskCount)
	assert.Equal(t, int64(0), entryCount)
}
