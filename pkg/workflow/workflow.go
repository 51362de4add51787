// Package workflow holds the hotel listing status machine shared by the
// backend and the console client.
//
// A hotel starts in StatusPending. An admin audit moves it to approved or
// rejected; rejected is terminal. Once approved, publish/unpublish toggle it
// between published and unpublished any number of times.
package workflow

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusPublished   Status = "published"
	StatusUnpublished Status = "unpublished"
)

// InitialStatus is assigned at creation and never chosen by the caller
const InitialStatus = StatusPending

// AllStatuses in display order
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusPublished,
	StatusUnpublished,
}

// AuditOutcome is the admin decision on a pending listing
type AuditOutcome string

const (
	OutcomeApproved AuditOutcome = "approved"
	OutcomeRejected AuditOutcome = "rejected"
)

// PublishAction toggles customer visibility of an approved listing
type PublishAction string

const (
	ActionPublish   PublishAction = "publish"
	ActionUnpublish PublishAction = "unpublish"
)

// Action names an operation available from a given status
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionPublishHotel   Action = "publish"
	ActionUnpublishHotel Action = "unpublish"
)

var (
	ErrUnknownStatus    = errors.New("workflow: unknown status")
	ErrUnknownAction    = errors.New("workflow: unknown action")
	ErrCommentRequired  = errors.New("workflow: a comment is required to reject a hotel")
	ErrNotPending       = errors.New("workflow: only pending hotels can be audited")
	ErrApprovalRequired = errors.New("workflow: hotel must be approved before it can be published")
	ErrTerminalState    = errors.New("workflow: rejected hotels cannot change status")
	ErrAlreadyInState   = errors.New("workflow: hotel is already in the requested state")
)

// TransitionError reports a refused transition with its endpoints
type TransitionError struct {
	From Status
	To   Status
	Err  error
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("%s (from %s)", e.Err.Error(), e.From)
	}
	return fmt.Sprintf("%s (%s -> %s)", e.Err.Error(), e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// edges lists every allowed transition
var edges = map[Status]map[Status]bool{
	StatusPending:     {StatusApproved: true, StatusRejected: true},
	StatusApproved:    {StatusPublished: true, StatusUnpublished: true},
	StatusPublished:   {StatusUnpublished: true},
	StatusUnpublished: {StatusPublished: true},
	StatusRejected:    {},
}

func (s Status) Valid() bool {
	_, ok := edges[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no transition leaves s
func (s Status) Terminal() bool {
	return s == StatusRejected
}

// Visible reports whether customers can see a hotel in status s
func (s Status) Visible() bool {
	return s == StatusPublished
}

// CanTransition reports whether from -> to is an allowed edge
func CanTransition(from, to Status) bool {
	return edges[from][to]
}

// ParseStatus normalizes and validates a status string
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// ParseStatuses parses a list of statuses; entries may themselves be
// comma separated, as sent by query strings like ?status=approved,published
func ParseStatuses(raw []string) ([]Status, error) {
	var out []Status
	seen := make(map[Status]bool)
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			s, err := ParseStatus(part)
			if err != nil {
				return nil, err
			}
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func ParseAuditOutcome(raw string) (AuditOutcome, error) {
	switch o := AuditOutcome(strings.ToLower(strings.TrimSpace(raw))); o {
	case OutcomeApproved, OutcomeRejected:
		return o, nil
	}
	return "", fmt.Errorf("%w: audit outcome %q", ErrUnknownAction, raw)
}

func ParsePublishAction(raw string) (PublishAction, error) {
	switch a := PublishAction(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionPublish, ActionUnpublish:
		return a, nil
	}
	return "", fmt.Errorf("%w: publish action %q", ErrUnknownAction, raw)
}

// ParseAction parses an operation name as listed by AvailableActions
func ParseAction(raw string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionApprove, ActionReject, ActionPublishHotel, ActionUnpublishHotel:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
}

// Apply runs the audit or publish operation named by a. comment is only
// used by approve and reject.
func (a Action) Apply(current Status, comment string) (Status, error) {
	switch a {
	case ActionApprove:
		return Audit(current, OutcomeApproved, comment)
	case ActionReject:
		return Audit(current, OutcomeRejected, comment)
	case ActionPublishHotel:
		return Publish(current, ActionPublish)
	case ActionUnpublishHotel:
		return Publish(current, ActionUnpublish)
	}
	return current, fmt.Errorf("%w: %q", ErrUnknownAction, a)
}

// ValidateAuditComment fails when a rejection carries a blank comment.
// It is the precondition clients check before any network call.
func ValidateAuditComment(outcome AuditOutcome, comment string) error {
	if outcome == OutcomeRejected && strings.TrimSpace(comment) == "" {
		return ErrCommentRequired
	}
	return nil
}

// Audit applies an admin audit decision to a hotel in status current
func Audit(current Status, outcome AuditOutcome, comment string) (Status, error) {
	if !current.Valid() {
		return current, fmt.Errorf("%w: %q", ErrUnknownStatus, current)
	}
	var target Status
	switch outcome {
	case OutcomeApproved:
		target = StatusApproved
	case OutcomeRejected:
		target = StatusRejected
	default:
		return current, fmt.Errorf("%w: audit outcome %q", ErrUnknownAction, outcome)
	}

	if err := ValidateAuditComment(outcome, comment); err != nil {
		return current, err
	}
	if current.Terminal() {
		return current, &TransitionError{From: current, To: target, Err: ErrTerminalState}
	}
	if current != StatusPending {
		return current, &TransitionError{From: current, To: target, Err: ErrNotPending}
	}
	return target, nil
}

// Publish applies a publish or unpublish action to a hotel in status current
func Publish(current Status, action PublishAction) (Status, error) {
	if !current.Valid() {
		return current, fmt.Errorf("%w: %q", ErrUnknownStatus, current)
	}
	var target Status
	switch action {
	case ActionPublish:
		target = StatusPublished
	case ActionUnpublish:
		target = StatusUnpublished
	default:
		return current, fmt.Errorf("%w: publish action %q", ErrUnknownAction, action)
	}

	switch {
	case current.Terminal():
		return current, &TransitionError{From: current, To: target, Err: ErrTerminalState}
	case current == StatusPending:
		return current, &TransitionError{From: current, To: target, Err: ErrApprovalRequired}
	case current == target:
		return current, &TransitionError{From: current, To: target, Err: ErrAlreadyInState}
	}
	if !CanTransition(current, target) {
		return current, &TransitionError{From: current, To: target, Err: ErrApprovalRequired}
	}
	return target, nil
}

// AvailableActions lists what an admin can do next from status s
func AvailableActions(s Status) []Action {
	switch s {
	case StatusPending:
		return []Action{ActionApprove, ActionReject}
	case StatusApproved:
		return []Action{ActionPublishHotel, ActionUnpublishHotel}
	case StatusPublished:
		return []Action{ActionUnpublishHotel}
	case StatusUnpublished:
		return []Action{ActionPublishHotel}
	default:
		return nil
	}
}

// Label returns the console display text for a status
func Label(s Status) string {
	switch s {
	case StatusPending:
		return "审核中"
	case StatusApproved:
		return "已通过"
	case StatusRejected:
		return "已驳回"
	case StatusPublished:
		return "已发布"
	case StatusUnpublished:
		return "未发布"
	}
	return string(s)
}
