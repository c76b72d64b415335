package internal

import (
	"reflect"
	"testing"
)

func TestExtractSuggestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no marker",
			text: "no marker here",
			want: nil,
		},
		{
			name: "three numbered questions",
			text: "Some answer.\n\n**Suggested Questions:**\n1. Why X?\n2. How Y?\n3. What Z?",
			want: []string{"Why X?", "How Y?", "What Z?"},
		},
		{
			name: "fourth question ignored",
			text: "**Suggested Questions:**\n1. Why X?\n2. How Y?\n3. What Z?\n4. Extra?",
			want: []string{"Why X?", "How Y?", "What Z?"},
		},
		{
			name: "digit followed by dot without space",
			text: "**Suggested Questions:**\n1.NoSpace?\n2. Ok?",
			want: []string{"NoSpace?", "Ok?"},
		},
		{
			name: "digit followed by space without dot",
			text: "**Suggested Questions:**\n1 Plain?\n2 Also?",
			want: []string{"Plain?", "Also?"},
		},
		{
			name: "non-numbered lines skipped",
			text: "**Suggested Questions:**\nHere are some ideas:\n1. First?\n- bullet noise\n2. Second?",
			want: []string{"First?", "Second?"},
		},
		{
			name: "blank lines between items",
			text: "**Suggested Questions:**\n\n1. First?\n\n2. Second?\n",
			want: []string{"First?", "Second?"},
		},
		{
			name: "marker with nothing after it",
			text: "answer **Suggested Questions:**",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSuggestions(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractSuggestions() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
