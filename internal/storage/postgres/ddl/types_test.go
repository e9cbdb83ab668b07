package ddl

import "testing"

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{"int", "INTEGER"},
		{" InTeGeR ", "INTEGER"},
		{"BIGINT", "BIGINT"},
		{"float", "DOUBLE PRECISION"},
		{"boolean", "BOOLEAN"},
		{"timestamp", "TIMESTAMP"},
		{"timestamptz", "TIMESTAMPTZ"},
		{"identity", "BIGINT GENERATED ALWAYS AS IDENTITY"},
		{"key", "TEXT"},
		{"", "TEXT"},
	}
	for _, tt := range tests {
		if got := MapType(tt.kind); got != tt.want {
			t.Errorf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
