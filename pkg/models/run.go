package models

import (
	"time"

	"github.com/google/uuid"
)

// RunRecord captures the capabilities a test run was started with
type RunRecord struct {
	ID          string       `json:"id" boltholdKey:"ID"`
	BuildNumber string       `json:"build_number,omitempty"`
	JobNumber   string       `json:"job_number,omitempty"`
	Device      string       `json:"device" boltholdIndex:"Device" validate:"required"`
	Platform    string       `json:"platform" boltholdIndex:"Platform"`
	Sauce       bool         `json:"sauce"`
	RealDevice  bool         `json:"real_device"`
	Caps        Capabilities `json:"caps"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (r *RunRecord) GenerateID() {
	r.ID = uuid.NewString()
}

// Label returns "build/job" when the CI numbers are known, else the ID.
func (r *RunRecord) Label() string {
	switch {
	case r.BuildNumber != "" && r.JobNumber != "":
		return r.BuildNumber + "/" + r.JobNumber
	case r.BuildNumber != "":
		return r.BuildNumber
	default:
		return r.ID
	}
}
