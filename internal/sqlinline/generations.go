package sqlinline

// Postgres history queries. seq gives a stable insertion order.

const QCreateGenerationHistory = `--sql 457b3447-1132-4008-9efc-db4f99a15ef4
create table if not exists generation_history (
    seq bigserial primary key,
    id uuid not null unique,
    session_id text not null,
    prompt text not null,
    video_url text not null,
    status text not null,
    metadata jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now()
);
`

const QCreateGenerationHistoryIndex = `--sql 1ef4867c-ca38-47aa-bb9f-16c671e7cb31
create index if not exists generation_history_session_seq_idx
    on generation_history (session_id, seq desc);
`

const QInsertGeneration = `--sql 785e528a-5130-421b-a035-8ab2956d2ccd
insert into generation_history (id, session_id, prompt, video_url, status, metadata, created_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, $6::jsonb, $7::timestamptz);
`

const QListGenerations = `--sql 9baa56c8-fa07-47d0-a649-971533d103e2
select id::text, prompt, video_url, status, metadata, created_at
from generation_history
where session_id = $1::text
order by seq desc
limit $2::int;
`

const QSelectGeneration = `--sql 19d6820b-f7cb-46db-b8f3-1f18cf73e154
select id::text, prompt, video_url, status, metadata, created_at
from generation_history
where session_id = $1::text
  and id::text = $2::text
limit 1;
`

const QDeleteSessionGenerations = `--sql d1421a61-29e2-446d-863b-f3a2244ebb22
delete from generation_history
where session_id = $1::text;
`

const QTrimSessionGenerations = `--sql 614e9d5d-7f66-4de8-b0b9-7e9a52385259
delete from generation_history
where session_id = $1::text
  and seq not in (
    select seq from generation_history
    where session_id = $1::text
    order by seq desc
    limit $2::int
  );
`

const QCreateGenerationSessions = `--sql 8d3f6b2a-41c7-4e0f-a9d2-6b5e7c1f0a34
create table if not exists generation_sessions (
    session_id text primary key,
    last_seen timestamptz not null
);
`

const QBackfillGenerationSessions = `--sql 2e7a9c41-5b08-4d6f-8c13-f4a0b9d2e765
insert into generation_sessions (session_id, last_seen)
select session_id, max(created_at) from generation_history
group by session_id
on conflict (session_id) do nothing;
`

// QTouchSession records activity for a session, creating it on first append.
const QTouchSession = `--sql 6b1c0e93-7f2d-4a58-b6e4-0d9a3c5f8e12
insert into generation_sessions (session_id, last_seen)
values ($1::text, $2::timestamptz)
on conflict (session_id) do update
set last_seen = greatest(generation_sessions.last_seen, excluded.last_seen);
`

// QRefreshSession records read activity without creating a session.
const QRefreshSession = `--sql a4e85d17-3c96-4b2f-9e0a-71d6b8c4f359
update generation_sessions
set last_seen = greatest(last_seen, $2::timestamptz)
where session_id = $1::text;
`

const QDeleteSession = `--sql c5f2a8e6-9d14-4b73-8a0f-3e6d1b7c2a98
delete from generation_sessions
where session_id = $1::text;
`

const QDeleteIdleSessions = `--sql 9f4b7d20-1e6c-4a83-b5d9-8c2e0f7a6b41
with expired as (
    delete from generation_sessions
    where last_seen < $1::timestamptz
    returning session_id
)
delete from generation_history
where session_id in (select session_id from expired);
`

const QPingHistory = `--sql 0c6a2d4e-8f1b-4b7a-9e35-5d2c7f4a1b60
select count(*) from generation_history where false;
`

// SQLite variants. Timestamps are unix milliseconds.

const QSQLiteCreateGenerationHistory = `--sql c84ad68d-a707-458d-b798-7472395486eb
create table if not exists generation_history (
    seq integer primary key autoincrement,
    id text not null unique,
    session_id text not null,
    prompt text not null,
    video_url text not null,
    status text not null,
    metadata text not null,
    created_at integer not null
);
`

const QSQLiteCreateGenerationHistoryIndex = `--sql 4956f1be-24dd-449a-8e68-b79f5387aefc
create index if not exists generation_history_session_seq_idx
    on generation_history (session_id, seq desc);
`

const QSQLiteInsertGeneration = `--sql 42993cc5-a0c8-459c-86ec-25cf774a96ee
insert into generation_history (id, session_id, prompt, video_url, status, metadata, created_at)
values (?, ?, ?, ?, ?, ?, ?);
`

const QSQLiteListGenerations = `--sql 5f9b1268-f64c-4fa2-8ab2-7dfc4879d22f
select id, prompt, video_url, status, metadata, created_at
from generation_history
where session_id = ?
order by seq desc
limit ?;
`

const QSQLiteSelectGeneration = `--sql 09e28ab5-1650-4e96-91d9-05e0c7a36ea9
select id, prompt, video_url, status, metadata, created_at
from generation_history
where session_id = ? and id = ?
limit 1;
`

const QSQLiteDeleteSessionGenerations = `--sql fab558b9-d82f-4c38-b8a1-f1c1dcc1125b
delete from generation_history
where session_id = ?;
`

const QSQLiteTrimSessionGenerations = `--sql 0208a344-6563-4a46-ab10-da7f0afeef82
delete from generation_history
where session_id = ?
  and seq not in (
    select seq from generation_history
    where session_id = ?
    order by seq desc
    limit ?
  );
`

const QSQLiteCreateGenerationSessions = `--sql 3a9e1c75-0b4d-4f62-97c8-e2d5a6f0b813
create table if not exists generation_sessions (
    session_id text primary key,
    last_seen integer not null
);
`

const QSQLiteBackfillGenerationSessions = `--sql 7c2d5e08-94a1-4b3f-8e6c-1f0a9d7b3c52
insert or ignore into generation_sessions (session_id, last_seen)
select session_id, max(created_at) from generation_history
group by session_id;
`

const QSQLiteTouchSession = `--sql e1b8f4a6-2c7d-4e95-a03b-5d9c6e2f7a10
insert into generation_sessions (session_id, last_seen)
values (?, ?)
on conflict (session_id) do update
set last_seen = max(generation_sessions.last_seen, excluded.last_seen);
`

const QSQLiteRefreshSession = `--sql 4f6a0d39-8e2b-4c17-b5a4-9d3e7f1c0b86
update generation_sessions
set last_seen = max(last_seen, ?)
where session_id = ?;
`

const QSQLiteDeleteSession = `--sql b7d3e9f1-6a20-4c58-9e14-2a8f5c0d7e63
delete from generation_sessions
where session_id = ?;
`

const QSQLiteDeleteIdleHistory = `--sql 0e5c8a27-d3f9-4b16-a7e2-6c4b1d9f8a05
delete from generation_history
where session_id in (
    select session_id from generation_sessions
    where last_seen < ?
);
`

const QSQLiteDeleteIdleSessions = `--sql 5d2a7f63-b9e4-4081-8c3d-e7f1a0b6c429
delete from generation_sessions
where last_seen < ?;
`
