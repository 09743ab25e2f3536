// Package sqlinline holds every SQL statement the service executes. Each
// statement starts with a "--sql <uuid>" marker line; the runner refuses
// unmarked queries and logs the uuid with every execution.
package sqlinline

const QCreateJobsTable = `--sql 7c1f4a2e-9b3d-4e6f-8a15-c2d7e9f0b134
create table if not exists transformations (
    id integer primary key autoincrement,
    job_id text unique not null,
    session_id text not null,
    original_filename text not null,
    original_path text not null,
    style_name text not null,
    output_path text,
    status text not null default 'pending',
    processing_time real,
    error_message text,
    created_at timestamp not null,
    completed_at timestamp
)`

const QCreateJobsSessionIndex = `--sql 3e8a1c5b-2f74-49d0-a6b8-1e9f3c7d5a20
create index if not exists idx_transformations_session
    on transformations (session_id, created_at)`

const QCreateJobsStatusIndex = `--sql 9d4b7e2a-6c10-4f83-b5e7-0a2c4d6e8f19
create index if not exists idx_transformations_status
    on transformations (status, created_at)`

const QInsertJob = `--sql 5f2e8b4c-1d97-43a6-9c0e-7b3a5d1f8e26
insert into transformations
    (job_id, session_id, original_filename, original_path, style_name, status, created_at)
values (?, ?, ?, ?, ?, 'pending', ?)`

const QMarkJobProcessing = `--sql 1a6c3e9f-8d25-47b1-b4d0-9e7f2a5c8b31
update transformations
set status = 'processing'
where job_id = ? and status = 'pending'`

const QMarkJobCompleted = `--sql 8b5d2f7a-3e61-4c98-a7f3-5c0e8d2b6a47
update transformations
set status = 'completed', output_path = ?, processing_time = ?, completed_at = ?
where job_id = ? and status = 'processing'`

const QMarkJobFailed = `--sql 4e9f6a1d-7b38-40c5-8e2a-3f6b9d0c7e52
update transformations
set status = 'failed', error_message = ?, completed_at = ?
where job_id = ? and status = 'processing'`

const QSelectJobByID = `--sql 2d7a5c8e-4f19-4b63-9a8d-6e1f4b7c0a95
select job_id, session_id, original_filename, original_path, style_name,
       output_path, status, processing_time, error_message, created_at, completed_at
from transformations
where job_id = ?`

const QSelectRecentCompleted = `--sql 6f3b9e4a-0c85-42d7-b1c6-8a5e2f9d3b60
select job_id, session_id, original_filename, original_path, style_name,
       output_path, status, processing_time, error_message, created_at, completed_at
from transformations
where status = 'completed'
order by created_at desc
limit ?`

const QSelectJobsBySession = `--sql 0e5d8a3f-6b92-4c47-a1e8-4d7c0f2b9e63
select job_id, session_id, original_filename, original_path, style_name,
       output_path, status, processing_time, error_message, created_at, completed_at
from transformations
where session_id = ?
order by created_at desc`
