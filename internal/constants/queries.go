package constants

// Queries use bindvar ? and are rebound per driver.
const (
	CountActiveAssignments = `
	SELECT driver_id, COUNT(*) AS active
	FROM jobs
	WHERE driver_id IS NOT NULL AND status IN (?, ?)
	GROUP BY driver_id
	`

	CountActiveAssignmentsForDriver = `
	SELECT COUNT(*) FROM jobs WHERE driver_id = ? AND status IN (?, ?)
	`

	Ping = `SELECT 1`
)
