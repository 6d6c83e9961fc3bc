package dtos

import (
	"testing"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
)

func TestCreateJobRequest_Ok(t *testing.T) {
	eta := "2025-10-10"
	req := CreateJobRequest{Ref: "IBT-1", Customer: "Acme", Priority: gormModels.PriorityUrgent, Eta: &eta}
	errs, ok := req.Ok()
	assert.True(t, ok)
	assert.Empty(t, errs)

	bad := "10/10/2025"
	neg := -1
	req = CreateJobRequest{Priority: "asap", Eta: &bad, Pallets: &neg}
	errs, ok = req.Ok()
	assert.False(t, ok)
	assert.Contains(t, errs, "CreateJobRequest.Ref")
	assert.Contains(t, errs, "CreateJobRequest.Customer")
	assert.Contains(t, errs, "CreateJobRequest.Priority")
	assert.Contains(t, errs, "CreateJobRequest.Eta")
	assert.Contains(t, errs, "CreateJobRequest.Pallets")
}

func TestCreateJobRequest_BlankText(t *testing.T) {
	errs, ok := (&CreateJobRequest{Ref: "   ", Customer: "\t"}).Ok()
	assert.False(t, ok)
	assert.Equal(t, "Ref must not be blank", errs["CreateJobRequest.Ref"])
	assert.Equal(t, "Customer must not be blank", errs["CreateJobRequest.Customer"])

	errs, ok = (&CreateDriverRequest{Name: " ", Callsign: "  "}).Ok()
	assert.False(t, ok)
	assert.Contains(t, errs, "CreateDriverRequest.Name")
	assert.Contains(t, errs, "CreateDriverRequest.Callsign")
}

func TestBulkCreateJobsRequest_Dive(t *testing.T) {
	req := BulkCreateJobsRequest{Jobs: []CreateJobRequest{{Ref: "A", Customer: "B"}, {Ref: "C"}}}
	errs, ok := req.Ok()
	assert.False(t, ok)
	assert.Contains(t, errs, "BulkCreateJobsRequest.Jobs[1].Customer")

	_, ok = (&BulkCreateJobsRequest{}).Ok()
	assert.False(t, ok)
}

func TestUpdateJobRequest(t *testing.T) {
	empty := ""
	req := UpdateJobRequest{Ref: &empty}
	_, ok := req.Ok()
	assert.False(t, ok, "ref cannot be blanked")

	spaces := "   "
	errs, ok := (&UpdateJobRequest{Customer: &spaces}).Ok()
	assert.False(t, ok)
	assert.Contains(t, errs, "UpdateJobRequest.Customer")
	_, ok = (&UpdateDriverRequest{Callsign: &spaces}).Ok()
	assert.False(t, ok)

	yes := true
	req = UpdateJobRequest{OrderPicked: &yes}
	_, ok = req.Ok()
	assert.True(t, ok)
	assert.True(t, req.TouchesWorkflow())
	assert.False(t, (&UpdateJobRequest{}).TouchesWorkflow())
}

func TestDriverRequests(t *testing.T) {
	email := "not-an-email"
	errs, ok := (&CreateDriverRequest{Name: "A", Callsign: "B", Email: &email}).Ok()
	assert.False(t, ok)
	assert.Contains(t, errs["CreateDriverRequest.Email"], "email")

	status := gormModels.DriverStatus("asleep")
	_, ok = (&UpdateDriverRequest{Status: &status}).Ok()
	assert.False(t, ok)
}
