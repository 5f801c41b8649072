// Package sqlite implements the SQLite storage backend for Vellum.
package sqlite

// Schema DDL for all tables. Attribute definitions are stored inside their
// owning collection row as a JSON array so that insertion order survives
// round-trips. Collection names and user emails are UNIQUE at the schema
// level as well as in the service checks.
const (
	createCollections = `CREATE TABLE IF NOT EXISTS collections (
    collection_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    user_id TEXT NOT NULL,
    attributes TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createPosts = `CREATE TABLE IF NOT EXISTS posts (
    post_id TEXT PRIMARY KEY,
    collection_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    attributes TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createPostsCollectionIdx = `CREATE INDEX IF NOT EXISTS idx_posts_collection
    ON posts (collection_id);`

	createUsers = `CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT,
    user_type TEXT NOT NULL,
    account_status TEXT NOT NULL,
    token TEXT,
    created_at TEXT NOT NULL
);`

	createSettings = `CREATE TABLE IF NOT EXISTS settings (
    settings_id TEXT PRIMARY KEY,
    initialized INTEGER NOT NULL
);`
)

// allDDL lists every statement executed on Attach, in order.
var allDDL = []string{
	createCollections,
	createPosts,
	createPostsCollectionIdx,
	createUsers,
	createSettings,
}
