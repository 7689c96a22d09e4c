package entity

import "fmt"

type Action string

const (
	ActionReserve          Action = "reserve"
	ActionIssue            Action = "issue"
	ActionReturn           Action = "return"
	ActionPromote          Action = "promote"
	ActionCancel           Action = "cancel"
	ActionDeleteBook       Action = "delete_book"
	ActionAddBook          Action = "add_book"
	ActionUpdateBook       Action = "update_book"
	ActionAddItem          Action = "add_item"
	ActionDeleteItem       Action = "delete_item"
	ActionDeleteAuthor     Action = "delete_author"
	ActionListTransactions Action = "list_transactions"
)

// Policy maps an action to the roles allowed to perform it.
type Policy map[Action][]Role

var DefaultPolicy = Policy{
	ActionReserve:          {RoleStudent, RoleFaculty},
	ActionIssue:            {RoleAdmin, RoleIssuer},
	ActionReturn:           {RoleAdmin, RoleIssuer},
	ActionPromote:          {RoleAdmin, RoleIssuer},
	ActionCancel:           {RoleAdmin, RoleIssuer},
	ActionDeleteBook:       {RoleAdmin},
	ActionAddBook:          {RoleAdmin},
	ActionUpdateBook:       {RoleAdmin},
	ActionAddItem:          {RoleAdmin},
	ActionDeleteItem:       {RoleAdmin},
	ActionDeleteAuthor:     {RoleAdmin},
	ActionListTransactions: {RoleAdmin, RoleIssuer, RoleStudent, RoleFaculty},
}

func (p Policy) Allows(role Role, action Action) bool {
	for _, r := range p[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Check returns ErrRoleNotAllowed when the user's role may not perform action.
func (p Policy) Check(user User, action Action) error {
	if user.ID == "" {
		return ErrUnauthenticated
	}
	if !p.Allows(user.Role, action) {
		return fmt.Errorf("role %s may not %s: %w", user.Role, action, ErrRoleNotAllowed)
	}
	return nil
}

// CheckOwnerOr lets the owner through, otherwise falls back to the role table.
func (p Policy) CheckOwnerOr(user User, ownerID string, action Action) error {
	if user.ID == "" {
		return ErrUnauthenticated
	}
	if user.ID == ownerID {
		return nil
	}
	if !p.Allows(user.Role, action) {
		return fmt.Errorf("user %s does not own this transaction: %w", user.ID, ErrNotOwner)
	}
	return nil
}
