// Package policies holds the authorization predicates for project and
// task access. They are pure functions over already-loaded records; the
// caller is responsible for reading the record fresh within the request.
package policies

import "taskhub/models"

// CanModifyProject reports whether user may update or delete project.
// Only the owner may mutate a project.
func CanModifyProject(user *models.User, project *models.Project) bool {
	return project.OwnerID == user.ID
}

// CanModifyTask reports whether user may update or delete task.
// Only the creator may mutate a task.
func CanModifyTask(user *models.User, task *models.Task) bool {
	return task.CreatorID == user.ID
}

// CanViewTask reports whether task appears in user's task listing: the
// user is the creator or among the assignees. Single-item fetch by id is
// intentionally not gated by this predicate.
func CanViewTask(user *models.User, task *models.Task) bool {
	if task.CreatorID == user.ID {
		return true
	}
	for _, id := range task.AssigneeIDs {
		if id == user.ID {
			return true
		}
	}
	return false
}
