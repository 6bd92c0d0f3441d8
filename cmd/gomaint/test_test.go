// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"reflect"
	"testing"

	"gomaint/internal/config"
)

func TestPlanTagSets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tc   config.TestConfig
		want [][]string
	}{
		{
			name: "empty config runs untagged once",
			tc:   config.TestConfig{},
			want: [][]string{nil},
		},
		{
			name: "base tags add one tagged run",
			tc:   config.TestConfig{BaseTags: []string{"netgo"}},
			want: [][]string{nil, {"netgo"}},
		},
		{
			name: "single feature runs all-together only",
			tc:   config.TestConfig{FeatureTags: []string{"alloc"}},
			want: [][]string{nil, {"alloc"}},
		},
		{
			name: "two features expand to singles and the pair",
			tc: config.TestConfig{
				BaseTags:    []string{"netgo"},
				FeatureTags: []string{"alloc", "rand"},
			},
			want: [][]string{
				nil,
				{"netgo", "alloc", "rand"},
				{"netgo", "alloc"},
				{"netgo", "alloc", "rand"},
				{"netgo", "rand"},
			},
		},
		{
			name: "exact tags replace the whole plan",
			tc: config.TestConfig{
				BaseTags:    []string{"netgo"},
				FeatureTags: []string{"alloc"},
				ExactTags:   [][]string{{"legacy"}, {"alloc", "rand"}},
			},
			want: [][]string{{"legacy"}, {"alloc", "rand"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := planTagSets(tt.tc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("planTagSets() = %v, want %v", got, tt.want)
			}
		})
	}
}
