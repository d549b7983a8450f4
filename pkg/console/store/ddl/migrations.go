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

package ddl

const createTableSessions = "create-table-sessions"
const createTableMessages = "create-table-messages"
const createTableFeedback = "create-table-feedback"
const createTableEvents = "create-table-events"
const createTableKeyValues = "create-table-key-values"
const createTableSettings = "create-table-settings"

type migration struct {
	name string
	stmt string
}

var migrations = map[string][]migration{
	"sqlite": {
		{
			name: createTableSessions,
			stmt: `
CREATE TABLE IF NOT EXISTS sessions (
id           INTEGER PRIMARY KEY AUTOINCREMENT,
session_id   TEXT,
user_id      TEXT,
title        TEXT,
plan         TEXT DEFAULT '[]',
plan_created BOOLEAN DEFAULT false,
created      INTEGER,
updated      INTEGER,
UNIQUE(session_id)
);
`,
		},
		{
			name: createTableMessages,
			stmt: `
CREATE TABLE IF NOT EXISTS messages (
id            INTEGER PRIMARY KEY AUTOINCREMENT,
session_id    TEXT,
invocation_id TEXT,
role          TEXT,
text          TEXT,
blob          TEXT,
created       INTEGER
);
`,
		},
		{
			name: createTableFeedback,
			stmt: `
CREATE TABLE IF NOT EXISTS feedback (
id            INTEGER PRIMARY KEY AUTOINCREMENT,
session_id    TEXT,
invocation_id TEXT,
score         INTEGER,
text          TEXT,
created       INTEGER
);
`,
		},
		{
			name: createTableEvents,
			stmt: `
CREATE TABLE IF NOT EXISTS events (
id          TEXT,
created     INTEGER,
type        TEXT,
blob        TEXT,
status      TEXT DEFAULT 'new',
status_desc TEXT DEFAULT '',
session_id  TEXT
);
`,
		},
		{
			name: createTableKeyValues,
			stmt: `
CREATE TABLE IF NOT EXISTS key_values (
id    INTEGER PRIMARY KEY AUTOINCREMENT,
key   TEXT,
value TEXT,
UNIQUE(key)
);
`,
		},
		{
			name: createTableSettings,
			stmt: `
CREATE TABLE IF NOT EXISTS settings (
id    INTEGER PRIMARY KEY AUTOINCREMENT,
key   TEXT,
value TEXT,
UNIQUE(key)
);
`,
		},
	},
	"postgres": {
		{
			name: createTableSessions,
			stmt: `
CREATE TABLE IF NOT EXISTS sessions (
id           SERIAL,
session_id   TEXT,
user_id      TEXT,
title        TEXT,
plan         TEXT DEFAULT '[]',
plan_created BOOLEAN DEFAULT false,
created      INTEGER,
updated      INTEGER,
UNIQUE(id),
UNIQUE(session_id)
);
`,
		},
		{
			name: createTableMessages,
			stmt: `
CREATE TABLE IF NOT EXISTS messages (
id            SERIAL,
session_id    TEXT,
invocation_id TEXT,
role          TEXT,
text          TEXT,
blob          TEXT,
created       INTEGER,
UNIQUE(id)
);
`,
		},
		{
			name: createTableFeedback,
			stmt: `
CREATE TABLE IF NOT EXISTS feedback (
id            SERIAL,
session_id    TEXT,
invocation_id TEXT,
score         INTEGER,
text          TEXT,
created       INTEGER,
UNIQUE(id)
);
`,
		},
		{
			name: createTableEvents,
			stmt: `
CREATE TABLE IF NOT EXISTS events (
id          TEXT,
created     INTEGER,
type        TEXT,
blob        TEXT,
status      TEXT DEFAULT 'new',
status_desc TEXT DEFAULT '',
session_id  TEXT
);
`,
		},
		{
			name: createTableKeyValues,
			stmt: `
CREATE TABLE IF NOT EXISTS key_values (
id    SERIAL,
key   TEXT,
value TEXT,
UNIQUE(key)
);
`,
		},
		{
			name: createTableSettings,
			stmt: `
CREATE TABLE IF NOT EXISTS settings (
id    SERIAL,
key   TEXT,
value TEXT,
UNIQUE(key)
);
`,
		},
	},
}
