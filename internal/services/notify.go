package services

import (
	"time"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
)

// Notifier receives the fresh state of a user after every successful write.
type Notifier interface {
	NotifyUser(user *models.User)
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(*models.User) {}

// NopNotifier discards notifications. Used when user events come from the
// MongoDB change stream instead.
var NopNotifier Notifier = nopNotifier{}

// Clock returns the current time; tests replace it.
type Clock func() time.Time
