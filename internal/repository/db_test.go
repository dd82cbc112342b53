package repository

import (
	"testing"
	"time"
)

func TestSessionDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		wantDB  string
		wantErr bool
	}{
		{"without parseTime", "root:password@tcp(127.0.0.1:3306)/passgen", "passgen", false},
		{"parseTime disabled", "root:password@tcp(db:3306)/sessions?parseTime=false", "sessions", false},
		{"parseTime already set", "root:password@tcp(127.0.0.1:3306)/passgen?parseTime=true", "passgen", false},
		{"malformed", "root:password@tcp(127.0.0.1:3306", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := sessionDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatal("sessionDSN() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("sessionDSN() unexpected error: %v", err)
			}
			if !cfg.ParseTime {
				t.Error("sessionDSN() left ParseTime disabled")
			}
			if cfg.Loc != time.UTC {
				t.Errorf("sessionDSN() Loc = %v, want UTC", cfg.Loc)
			}
			if cfg.DBName != tt.wantDB {
				t.Errorf("sessionDSN() DBName = %q, want %q", cfg.DBName, tt.wantDB)
			}
		})
	}
}

func TestNewDB_InvalidDSN(t *testing.T) {
	if _, err := NewDB("not a dsn"); err == nil {
		t.Error("NewDB() expected error for malformed DSN")
	}
}
