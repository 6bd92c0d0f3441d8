// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"reflect"
	"testing"

	"gomaint/internal/config"
)

func TestFuzzRunArgs_UsesConfiguredDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fuzzTime string
		tags     []string
		want     []string
	}{
		{
			name:     "configured duration with tags",
			fuzzTime: "90s",
			tags:     []string{"-tags=netgo"},
			want: []string{
				"test", "-run=^$", "-fuzz=^FuzzDecode$", "-fuzztime=1m30s",
				"-tags=netgo", "example.com/mono/wire",
			},
		},
		{
			name: "default duration without tags",
			want: []string{
				"test", "-run=^$", "-fuzz=^FuzzDecode$", "-fuzztime=30s",
				"example.com/mono/wire",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dur, err := config.FuzzConfig{FuzzTime: tt.fuzzTime}.Duration()
			if err != nil {
				t.Fatalf("Duration() error = %v", err)
			}
			target := fuzzTarget{Package: "example.com/mono/wire", Name: "FuzzDecode"}
			if got := fuzzRunArgs(target, dur, tt.tags); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fuzzRunArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFuzzTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		out  string
		want []fuzzTarget
	}{
		{
			name: "no targets",
			out:  "?   \texample.com/mono/wire\t[no test files]\n",
			want: nil,
		},
		{
			name: "single package",
			out: "FuzzDecode\n" +
				"ok  \texample.com/mono/wire\t0.012s\n",
			want: []fuzzTarget{{Package: "example.com/mono/wire", Name: "FuzzDecode"}},
		},
		{
			name: "multiple packages with a gap",
			out: "FuzzDecode\n" +
				"FuzzRoundTrip\n" +
				"ok  \texample.com/mono/wire\t0.012s\n" +
				"?   \texample.com/mono/units\t[no test files]\n" +
				"FuzzParse\n" +
				"ok  \texample.com/mono/units/parser\t0.009s\n",
			want: []fuzzTarget{
				{Package: "example.com/mono/wire", Name: "FuzzDecode"},
				{Package: "example.com/mono/wire", Name: "FuzzRoundTrip"},
				{Package: "example.com/mono/units/parser", Name: "FuzzParse"},
			},
		},
		{
			name: "non-fuzz list lines are ignored",
			out: "TestDecode\n" +
				"BenchmarkDecode\n" +
				"FuzzDecode\n" +
				"ok  \texample.com/mono/wire\t0.012s\n",
			want: []fuzzTarget{{Package: "example.com/mono/wire", Name: "FuzzDecode"}},
		},
		{
			name: "blank output",
			out:  "\n\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseFuzzTargets(tt.out)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFuzzTargets() = %v, want %v", got, tt.want)
			}
		})
	}
}
