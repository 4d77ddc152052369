package message

import "encoding/json"

// jsonMessage is the wire form of a Message. Role acts as the discriminator
// (mirrors the Kind-discriminator pattern the provider-agnostic model
// package uses for its Part union); ToolCalls/ToolCallID are only populated
// for the roles that carry them.
type jsonMessage struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// MarshalJSON encodes the Message in its wire form.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMessage{
		Role:       m.role,
		Content:    m.content,
		ToolCalls:  m.toolCalls,
		ToolCallID: m.toolCallID,
	})
}

// UnmarshalJSON decodes a Message from its wire form, reconstructing the
// concrete variant from the Role discriminator.
func (m *Message) UnmarshalJSON(data []byte) error {
	var tmp jsonMessage
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	m.role = tmp.Role
	m.content = tmp.Content
	m.toolCalls = tmp.ToolCalls
	if tmp.Role == RoleTool {
		m.toolCallID = tmp.ToolCallID
		m.hasToolID = true
	}
	return nil
}

// MarshalJSON encodes the conversation as an ordered array of messages.
func (c Conversation) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.messages)
}

// UnmarshalJSON decodes a conversation from an ordered array of messages,
// re-validating the append invariants in order.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var raw []Message
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewConversation(raw...)
	if err != nil {
		return err
	}
	*c = built
	return nil
}
