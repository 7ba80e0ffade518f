package query

const userColumns = "id, email, password_hash, created_at"

// InsertUser inserts a user and returns the generated id.
func (b Builder) InsertUser(email, passwordHash string, createdAt int64) Plan {
	p := b.params()
	sql := "INSERT INTO users (email, password_hash, created_at) VALUES (" +
		p.bind(email) + ", " + p.bind(passwordHash) + ", " + p.bind(createdAt) +
		") RETURNING id"
	return Plan{SQL: sql, Args: p.args}
}

// UserByEmail selects a user by exact email.
func (b Builder) UserByEmail(email string) Plan {
	p := b.params()
	return Plan{SQL: "SELECT " + userColumns + " FROM users WHERE email = " + p.bind(email), Args: p.args}
}

// UserByID selects a user by id.
func (b Builder) UserByID(id int64) Plan {
	p := b.params()
	return Plan{SQL: "SELECT " + userColumns + " FROM users WHERE id = " + p.bind(id), Args: p.args}
}
