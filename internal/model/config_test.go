package model

import "testing"

func TestBackendConfig_QueryEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		cfg    BackendConfig
		want   string
		health string
	}{
		{
			name:   "internal host rewritten",
			cfg:    BackendConfig{QueryURL: "http://api:8000", RewriteInternalHost: true},
			want:   "http://localhost:8001/query",
			health: "http://localhost:8001/health",
		},
		{
			name:   "rewrite disabled",
			cfg:    BackendConfig{QueryURL: "http://api:8000/", RewriteInternalHost: false},
			want:   "http://api:8000/query",
			health: "http://api:8000/health",
		},
		{
			name:   "external host untouched",
			cfg:    BackendConfig{QueryURL: "https://check.example.org", RewriteInternalHost: true},
			want:   "https://check.example.org/query",
			health: "https://check.example.org/health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.QueryEndpoint(); got != tt.want {
				t.Errorf("QueryEndpoint() = %q, want %q", got, tt.want)
			}
			if got := tt.cfg.HealthEndpoint(); got != tt.health {
				t.Errorf("HealthEndpoint() = %q, want %q", got, tt.health)
			}
		})
	}
}

func TestBackendConfig_Resolve(t *testing.T) {
	cfg := BackendConfig{BaseURL: "http://localhost:8000/"}
	if got := cfg.Resolve("/api/api-keys/"); got != "http://localhost:8000/api/api-keys/" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, label := range []string{"false", "unknown", "", "True", "TRUE", " true"} {
		if IsAffirmative(label) {
			t.Errorf("IsAffirmative(%q) = true, want false", label)
		}
	}
	if !IsAffirmative("true") {
		t.Error("IsAffirmative(\"true\") = false, want true")
	}
}

func TestQueryResult_ClaimAt_MissingEntries(t *testing.T) {
	r := QueryResult{
		Kind:           KindClaims,
		Claims:         []string{"a", "b"},
		Labels:         []string{"true"},
		Justifications: nil,
	}

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	first := r.ClaimAt(0)
	if first.Claim != "a" || !first.Affirmative() || first.Justification != "" {
		t.Errorf("ClaimAt(0) = %+v", first)
	}

	second := r.ClaimAt(1)
	if second.Claim != "b" || second.Affirmative() {
		t.Errorf("ClaimAt(1) = %+v", second)
	}
}
