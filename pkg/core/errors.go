package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound            = errors.New("not found")
	ErrParse               = errors.New("parse error")
	ErrUnsupportedVersion  = errors.New("unsupported IIIF version")
	ErrVersionMismatch     = errors.New("version mismatch")
	ErrMissingArgument     = errors.New("missing argument")
	ErrUnresolvedReference = errors.New("unresolved annotation reference")
	ErrUnresolvableTarget  = errors.New("unresolvable annotation target")
)

// NotFoundError reports a manifest, file or URL that could not be read.
type NotFoundError struct {
	Location string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot read %s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("cannot read %s", e.Location)
}

func (e *NotFoundError) Unwrap() []error { return chain(ErrNotFound, e.Err) }

// ParseError reports invalid JSON, or a JSON tree whose shape does not
// allow locating annotations.
type ParseError struct {
	Location string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = "invalid json"
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Location != "" {
		return fmt.Sprintf("%s: %s", e.Location, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() []error { return chain(ErrParse, e.Err) }

// UnsupportedVersionError is returned for documents without V2 or V3 markers.
type UnsupportedVersionError struct {
	Location string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s: no IIIF presentation V2 or V3 markers found", e.Location)
}

func (e *UnsupportedVersionError) Unwrap() error { return ErrUnsupportedVersion }

// VersionMismatchError is returned when an annotation document and the
// manifest it should be merged into use different IIIF versions.
type VersionMismatchError struct {
	Manifest Version
	Document Version
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("annotation document is IIIF %s but manifest is IIIF %s", e.Document, e.Manifest)
}

func (e *VersionMismatchError) Unwrap() error { return ErrVersionMismatch }

// MissingArgumentError reports a flag the selected command requires.
type MissingArgumentError struct {
	Command string
	Flag    string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing required argument --%s", e.Command, e.Flag)
}

func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

// UnresolvedReferenceError reports an external annotation document that
// could not be loaded. It is recoverable: the canvas counts as empty.
type UnresolvedReferenceError struct {
	Canvas string
	URI    string
	Err    error
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("canvas %s: cannot resolve annotations at %s: %v", e.Canvas, e.URI, e.Err)
}

func (e *UnresolvedReferenceError) Unwrap() []error {
	return chain(ErrUnresolvedReference, e.Err)
}

// UnresolvableTargetError reports an annotation that cannot be placed on a
// canvas. It is recoverable: the annotation is skipped.
type UnresolvableTargetError struct {
	Annotation string
	Target     string
	Reason     string
}

func (e *UnresolvableTargetError) Error() string {
	id := e.Annotation
	if id == "" {
		id = "<no id>"
	}
	if e.Target != "" {
		return fmt.Sprintf("annotation %s: target %s: %s", id, e.Target, e.Reason)
	}
	return fmt.Sprintf("annotation %s: %s", id, e.Reason)
}

func (e *UnresolvableTargetError) Unwrap() error { return ErrUnresolvableTarget }

// IsRecoverable reports whether err only affects a single canvas or
// annotation and processing may continue.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnresolvedReference) || errors.Is(err, ErrUnresolvableTarget)
}

// chain pairs a sentinel with an optional cause for multi-error unwrapping.
func chain(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}
