package message

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// BodyField 是 Response 字段映射中承载正文的键。
const BodyField = "body"

// Request 表示一条来自外部的用户输入。
type Request struct {
	ID       string
	Text     string
	Intent   string
	Entities map[string]any
	Received time.Time
}

// NewRequest 创建带随机 ID 的请求。
func NewRequest(text string) *Request {
	return &Request{
		ID:       uuid.NewString(),
		Text:     text,
		Received: time.Now(),
	}
}

// Response is the normalized result of an action invocation.
type Response struct {
	ID     string
	Body   string
	fields map[string]any
}

// NewResponse builds a response whose body is the given text.
func NewResponse(body string) *Response {
	return &Response{
		ID:     uuid.NewString(),
		Body:   body,
		fields: map[string]any{BodyField: body},
	}
}

// ResponseFromFields builds a response from a field mapping. A string "body"
// field becomes Body; every field, body included, is kept as-is.
func ResponseFromFields(fields map[string]any) *Response {
	resp := &Response{
		ID:     uuid.NewString(),
		fields: maps.Clone(fields),
	}
	if resp.fields == nil {
		resp.fields = map[string]any{}
	}
	if body, ok := resp.fields[BodyField].(string); ok {
		resp.Body = body
	}
	return resp
}

// Fields returns a copy of the response's field mapping.
func (r *Response) Fields() map[string]any {
	if r == nil {
		return nil
	}
	return maps.Clone(r.fields)
}

// Field returns a single field value.
func (r *Response) Field(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.fields[key]
	return v, ok
}
