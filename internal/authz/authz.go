// Package authz holds the authorization rules of the application.
//
// Every rule is a pure function over the acting worker so that services and
// handlers share one definition of who may do what.
package authz

import "github.com/yukikurage/task-manager/internal/models"

const (
	workerListURL   = "/workers/"
	registrationURL = "/workers/create/"
)

// Actor is the authenticated worker performing a request.
type Actor struct {
	ID          uint64
	Username    string
	IsSuperuser bool
}

// ActorFor builds the actor for an authenticated account.
func ActorFor(a models.Authenticable) Actor {
	return Actor{
		ID:          a.GetID(),
		Username:    a.GetUsername(),
		IsSuperuser: a.IsSuper(),
	}
}

// IsAnonymous reports whether no one is logged in.
func (a Actor) IsAnonymous() bool {
	return a.ID == 0
}

// CanDeleteComment allows the comment's author and superusers.
func CanDeleteComment(actor Actor, comment *models.Commentary) bool {
	if actor.IsAnonymous() || comment == nil {
		return false
	}
	return actor.IsSuperuser || comment.UserID == actor.ID
}

// CanEdit reports whether the actor may change shared records
// (positions, task types, tasks and worker profiles).
func CanEdit(actor Actor) bool {
	return !actor.IsAnonymous()
}

// IsSelf reports whether the worker is the actor.
func IsSelf(actor Actor, workerID uint64) bool {
	return !actor.IsAnonymous() && actor.ID == workerID
}

// WorkerDeleteRedirect is where the actor lands after deleting a worker.
func WorkerDeleteRedirect(actor Actor) string {
	if actor.IsSuperuser {
		return workerListURL
	}
	return registrationURL
}
