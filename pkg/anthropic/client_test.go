package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKMessages(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "is this a recipe?"},
		{Role: "assistant", Content: "yes"},
	})

	require.Len(t, msgs, 2)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
}

func TestMessageResponseText(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: `{"isRecipe":`},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: `true}`},
		},
	}
	assert.Equal(t, `{"isRecipe":true}`, resp.Text())

	empty := &MessageResponse{}
	assert.Equal(t, "", empty.Text())
}
