package dialect

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Dialect
		wantErr bool
	}{
		{name: "postgres", input: "postgres", want: Postgres},
		{name: "sqlite", input: "sqlite", want: SQLite},
		{name: "empty defaults to production", input: "", want: Postgres},
		{name: "unknown rejected", input: "oracle", wantErr: true},
		{name: "case sensitive", input: "Postgres", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSQLite(t *testing.T) {
	if Postgres.IsSQLite() {
		t.Error("Postgres.IsSQLite() = true")
	}
	if !SQLite.IsSQLite() {
		t.Error("SQLite.IsSQLite() = false")
	}
}
