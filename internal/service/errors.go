package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emrgen/linkset/internal/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConflict matches every *ConflictError.
	ErrConflict = errors.New("link already exists")
)

type NotFoundKind int

const (
	NotFoundSource NotFoundKind = iota
	NotFoundTargets
	NotFoundLink
)

// NotFoundError reports a missing source, missing targets or a missing link.
// For NotFoundTargets, IDs always holds every missing target, not just the first.
type NotFoundError struct {
	What   NotFoundKind
	Entity string
	IDs    []uint
}

func (e *NotFoundError) Error() string {
	switch e.What {
	case NotFoundTargets:
		return fmt.Sprintf("%s not found: [%s]", e.Entity, joinIDs(e.IDs))
	case NotFoundLink:
		return fmt.Sprintf("%s link %s not found", e.Entity, joinIDs(e.IDs))
	default:
		return fmt.Sprintf("%s %s not found", e.Entity, joinIDs(e.IDs))
	}
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// ConflictError is returned by attach when the pair is already linked.
type ConflictError struct {
	Relation string
	SourceID uint
	TargetID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %d is already linked to %d", e.Relation, e.SourceID, e.TargetID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// IsTransient reports whether err is a storage failure after which the whole
// call is safe to retry verbatim.
func IsTransient(err error) bool {
	return store.IsTransient(err)
}

// ToStatus translates an engine error into a grpc status for transport layers.
func ToStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return notFound.GRPCStatus()
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.GRPCStatus()
	}

	if IsTransient(err) {
		return status.New(codes.Unavailable, err.Error())
	}

	return status.New(codes.Internal, err.Error())
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
