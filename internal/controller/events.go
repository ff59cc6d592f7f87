package controller

import (
	"time"

	"github.com/blockscope-dev/blockscope/internal/scanclient"
)

// Event is something that happened to the scan workflow.
type Event interface {
	isEvent()
}

// SubmitScan is emitted by the scan input form.
type SubmitScan struct {
	Code string
	Name string
}

// ScanSucceeded carries the scanning service response.
type ScanSucceeded struct {
	Result *scanclient.ScanResult
	At     time.Time
}

// ScanFailed carries the error returned by the scanning service client.
type ScanFailed struct {
	Err error
}

// StartNewScan is the "New Scan" action on the results page.
type StartNewScan struct{}

// ToggleFinding flips the disclosure state of the finding at Index.
type ToggleFinding struct {
	Index int
}

// DismissError hides the error banner.
type DismissError struct{}

func (SubmitScan) isEvent()    {}
func (ScanSucceeded) isEvent() {}
func (ScanFailed) isEvent()    {}
func (StartNewScan) isEvent()  {}
func (ToggleFinding) isEvent() {}
func (DismissError) isEvent()  {}

// StartScan asks the runtime to call the scanning service.
type StartScan struct {
	Code string
	Name string
}
