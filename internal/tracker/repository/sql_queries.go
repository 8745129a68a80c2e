package repository

const (
	createRecordQuery = `INSERT INTO job_records (record_id, job_id, file_id, mode, status, created_at)
					VALUES ($1, $2, $3, $4, $5, now())
					RETURNING record_id, job_id, file_id, mode, status, COALESCE(output_url, '') AS output_url, COALESCE(error, '') AS error, created_at, finished_at`
	finishRecordQuery = `UPDATE job_records
					SET status = $1,
					    output_url = COALESCE(NULLIF($2, ''), output_url),
					    error = COALESCE(NULLIF($3, ''), error),
					    finished_at = now()
					WHERE job_id = $4`
	listRecordsQuery = `SELECT record_id, job_id, file_id, mode, status, COALESCE(output_url, '') AS output_url, COALESCE(error, '') AS error, created_at, finished_at
					FROM job_records ORDER BY created_at DESC LIMIT $1`
)
