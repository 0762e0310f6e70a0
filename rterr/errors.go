package rterr

import "fmt"

// Kind classifies a feed error beyond the wire code, so callers can
// distinguish e.g. a timeout from a connection failure without parsing
// the message string.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindDecode
	KindParse
	KindUpstream
	KindUnsupportedStation
	KindScheduleLookup
)

// Error is the structured error returned across the plugin's produced
// interface. Its string form is "code|category|message", which the host's
// error translator parses; the format must not change.
type Error struct {
	Code     int
	Category string
	Message  string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d|%s|%s", e.Code, e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with an explicit code and category.
func New(code int, category, message string, kind Kind) *Error {
	return &Error{Code: code, Category: category, Message: message, Kind: kind}
}

// Wrap builds an Error carrying an underlying cause.
func Wrap(code int, category, message string, kind Kind, err error) *Error {
	return &Error{Code: code, Category: category, Message: message, Kind: kind, Err: err}
}

func Network(message string, err error) *Error {
	return Wrap(5003, "Could not download MNR GTFS-RT Data", message, KindNetwork, err)
}

func Timeout(message string, err error) *Error {
	return Wrap(5003, "Could not download MNR GTFS-RT Data", message, KindTimeout, err)
}

func Decode(message string, err error) *Error {
	return Wrap(5003, "Could not decode MNR GTFS-RT feed", message, KindDecode, err)
}

func Parse(message string) *Error {
	return New(5003, "Could Not Parse Station Data", message, KindParse)
}

func Upstream(message string) *Error {
	return New(5003, "Could Not Parse Station Data", message, KindUpstream)
}

func NoData(message string) *Error {
	return New(5003, "No MNR GTFS-RT Data returned", message, KindUpstream)
}

func UnsupportedStation() *Error {
	return New(4007, "Unsupported Station",
		"The Stop does not support real-time status information.", KindUnsupportedStation)
}

func ScheduleLookup(message string, err error) *Error {
	return Wrap(5002, "Server Error", message, KindScheduleLookup, err)
}

func kindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

func IsNetwork(err error) bool  { return kindOf(err) == KindNetwork }
func IsTimeout(err error) bool  { return kindOf(err) == KindTimeout }
func IsDecode(err error) bool   { return kindOf(err) == KindDecode }
func IsParse(err error) bool    { return kindOf(err) == KindParse }
func IsUpstream(err error) bool { return kindOf(err) == KindUpstream }

func IsUnsupportedStation(err error) bool { return kindOf(err) == KindUnsupportedStation }
func IsScheduleLookup(err error) bool     { return kindOf(err) == KindScheduleLookup }
