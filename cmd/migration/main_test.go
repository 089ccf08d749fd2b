package main

import (
	"bytes"
	"testing"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default", args: nil, want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"two"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSteps(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSteps(%v) err=%v wantErr=%v", tt.args, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("parseSteps(%v)=%d want=%d", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	if got, err := parseVersion("1"); err != nil || got != 1 {
		t.Fatalf("parseVersion(1)=%d,%v", got, err)
	}
	if got, err := parseVersion("-1"); err != nil || got != -1 {
		t.Fatalf("parseVersion(-1)=%d,%v", got, err)
	}
	if _, err := parseVersion("-2"); err == nil {
		t.Fatalf("expected error for -2")
	}
	if _, err := parseVersion("x"); err == nil {
		t.Fatalf("expected error for non-numeric version")
	}
}

func TestParseTarget(t *testing.T) {
	if got, err := parseTarget("2"); err != nil || got != 2 {
		t.Fatalf("parseTarget(2)=%d,%v", got, err)
	}
	if _, err := parseTarget("-1"); err == nil {
		t.Fatalf("expected error for negative target")
	}
}

func TestRootCmd_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DATABASE_URL", "")

	cmd := rootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil || err.Error() != "DB_URL is required" {
		t.Fatalf("expected DB_URL error, got %v", err)
	}
}

func TestRootCmd_ForceRequiresVersion(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"force"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected arg validation error for force without version")
	}
}
