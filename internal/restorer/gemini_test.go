package restorer

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestExtractResult(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: true,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name: "candidate without content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{}},
			},
			wantErr: true,
		},
		{
			name: "blank text only",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: "  \n"}}},
				}},
			},
			wantErr: true,
		},
		{
			name: "text part",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: " iVBORw0KGgo= "}}},
				}},
			},
			want: "iVBORw0KGgo=",
		},
		{
			name: "inline image wins over later text",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{
						nil,
						{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
						{Text: "here you go"},
					}},
				}},
			},
			want: base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractResult(tt.resp)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrEmptyResponse)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewGeminiRestorer_EmptyKey(t *testing.T) {
	_, err := NewGeminiRestorer(context.Background(), Config{})
	require.Error(t, err)
}

func TestPermissiveSafety(t *testing.T) {
	settings := permissiveSafety()
	require.Len(t, settings, 4)
	for _, s := range settings {
		require.Equal(t, genai.HarmBlockThresholdBlockNone, s.Threshold)
	}
}
