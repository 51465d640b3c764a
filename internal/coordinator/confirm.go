package coordinator

import "fmt"

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}

// AlwaysConfirm answers yes to every prompt.
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

// NeverConfirm answers no to every prompt.
var NeverConfirm = ConfirmFunc(func(string) bool { return false })

const (
	deleteEdgeMessage = "Are you sure you want to delete this edge?"
	newProjectMessage = "You have unsaved changes. Are you sure you want to create a new project?"
)

func deleteNodeMessage(label string) string {
	return fmt.Sprintf("Are you sure you want to delete the \"%s\" node?", label)
}

func confirm(c Confirmer, message string) bool {
	if c == nil {
		return false
	}
	return c.Confirm(message)
}
