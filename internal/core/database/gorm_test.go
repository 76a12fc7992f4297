package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		user string
		pass string
		want string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(127.0.0.1:3306)/blog?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/blog?parseTime=true",
		},
		{
			name: "jdbc url",
			in:   "jdbc:mysql://127.0.0.1:3306/blog?useUnicode=true&characterEncoding=utf8",
			user: "blog",
			pass: "secret",
			want: "blog:secret@tcp(127.0.0.1:3306)/blog?charset=utf8&parseTime=true",
		},
		{
			name: "url with ssl and timezone",
			in:   "mysql://u:p@db:3306/blog?useSSL=false&serverTimezone=UTC",
			want: "u:p@tcp(db:3306)/blog?charset=utf8mb4&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "empty",
			in:   "  ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestNewGormUnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGormSQLiteAndMigrate(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "blog.db"),
		MaxOpenConns: 10,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "categories", "posts", "comments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "u:****@tcp(db:3306)/blog", maskDSN("u:secret@tcp(db:3306)/blog"))
	assert.Equal(t, "tcp(db:3306)/blog", maskDSN("tcp(db:3306)/blog"))
}
