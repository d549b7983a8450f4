// Copyright 2019 Laszlo Fogas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

const Dummy = "dummy"
const SelectSessionByID = "select-session-by-id"
const SelectSessions = "select-sessions"
const SelectSessionsSince = "select-sessions-since"
const DeleteSessionsBefore = "delete-sessions-before"
const DeleteMessagesOfSessionsBefore = "delete-messages-of-sessions-before"
const SelectMessagesBySession = "select-messages-by-session"
const SelectFeedbackSince = "select-feedback-since"
const SelectEventsSince = "select-events-since"
const SelectEventsOfTypeSince = "select-events-of-type-since"
const SelectUnprocessedEvents = "select-unprocessed-events"
const UpdateEventStatus = "update-event-status"
const SelectKeyValue = "select-key-value"
const SelectSetting = "select-setting"
const SelectAllSettings = "select-all-settings"

var queries = map[string]map[string]string{
	"sqlite": {
		Dummy: `
SELECT 1;
`,
		SelectSessionByID: `
SELECT id, session_id, user_id, title, plan, plan_created, created, updated
FROM sessions
WHERE session_id = $1;
`,
		SelectSessions: `
SELECT id, session_id, user_id, title, plan, plan_created, created, updated
FROM sessions
ORDER BY updated DESC
LIMIT $1;
`,
		SelectSessionsSince: `
SELECT id, session_id, user_id, title, plan, plan_created, created, updated
FROM sessions
WHERE created >= $1;
`,
		DeleteSessionsBefore: `
DELETE FROM sessions
WHERE updated < $1;
`,
		DeleteMessagesOfSessionsBefore: `
DELETE FROM messages
WHERE session_id IN (SELECT session_id FROM sessions WHERE updated < $1);
`,
		SelectMessagesBySession: `
SELECT id, session_id, invocation_id, role, text, blob, created
FROM messages
WHERE session_id = $1
ORDER BY created ASC, id ASC;
`,
		SelectFeedbackSince: `
SELECT id, session_id, invocation_id, score, text, created
FROM feedback
WHERE created >= $1
ORDER BY created DESC;
`,
		SelectEventsSince: `
SELECT id, created, type, blob, status, status_desc, session_id
FROM events
WHERE created >= $1
ORDER BY created DESC
LIMIT $2;
`,
		SelectEventsOfTypeSince: `
SELECT id, created, type, blob, status, status_desc, session_id
FROM events
WHERE type = $1 AND created >= $2
ORDER BY created ASC;
`,
		SelectUnprocessedEvents: `
SELECT id, created, type, blob, status, status_desc, session_id
FROM events
WHERE status='new' order by created ASC limit 10;
`,
		UpdateEventStatus: `
UPDATE events SET status = $1, status_desc = $2 WHERE id = $3;
`,
		SelectKeyValue: `
SELECT id, key, value
FROM key_values
WHERE key = $1;
`,
		SelectSetting: `
SELECT id, key, value
FROM settings
WHERE key = $1;
`,
		SelectAllSettings: `
SELECT id, key, value
FROM settings;
`,
	},
	"postgres": {
		Dummy: `
SELECT 1;
`,
		SelectSessionByID: `
SELECT id, session_id, user_id, title, plan, plan_created, created, updated
FROM sessions
WHERE session_id = $1;
`,
		SelectSessions: `
SELECT id, session_id, user_id, title, plan, plan_created, created, updated
FROM sessions
ORDER BY updated DESC
LIMIT $1;
`,
		SelectSessionsSince: `
SELECT id, session_id, user_id, title, plan, plan_created, created, updated
FROM sessions
WHERE created >= $1;
`,
		DeleteSessionsBefore: `
DELETE FROM sessions
WHERE updated < $1;
`,
		DeleteMessagesOfSessionsBefore: `
DELETE FROM messages
WHERE session_id IN (SELECT session_id FROM sessions WHERE updated < $1);
`,
		SelectMessagesBySession: `
SELECT id, session_id, invocation_id, role, text, blob, created
FROM messages
WHERE session_id = $1
ORDER BY created ASC, id ASC;
`,
		SelectFeedbackSince: `
SELECT id, session_id, invocation_id, score, text, created
FROM feedback
WHERE created >= $1
ORDER BY created DESC;
`,
		SelectEventsSince: `
SELECT id, created, type, blob, status, status_desc, session_id
FROM events
WHERE created >= $1
ORDER BY created DESC
LIMIT $2;
`,
		SelectEventsOfTypeSince: `
SELECT id, created, type, blob, status, status_desc, session_id
FROM events
WHERE type = $1 AND created >= $2
ORDER BY created ASC;
`,
		SelectUnprocessedEvents: `
SELECT id, created, type, blob, status, status_desc, session_id
FROM events
WHERE status='new' order by created ASC limit 10;
`,
		UpdateEventStatus: `
UPDATE events SET status = $1, status_desc = $2 WHERE id = $3;
`,
		SelectKeyValue: `
SELECT id, key, value
FROM key_values
WHERE key = $1;
`,
		SelectSetting: `
SELECT id, key, value
FROM settings
WHERE key = $1;
`,
		SelectAllSettings: `
SELECT id, key, value
FROM settings;
`,
	},
}

// Stmt returns the named statement for the given driver.
func Stmt(driver string, name string) string {
	return queries[driver][name]
}
