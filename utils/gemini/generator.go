package gemini

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/kacperborowieckb/gen-records/shared/records"
	"github.com/kacperborowieckb/gen-records/shared/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ContentGenerator is the slice of the genai models API the generator needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator asks Gemini for record sets conforming to a shape.
type Generator struct {
	models ContentGenerator
	model  string
	logger *zap.Logger
}

func NewGenerator(models ContentGenerator, model string, logger *zap.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{models: models, model: model, logger: logger}
}

// UserMessage wraps the user's prompt into the message sent to the model.
func UserMessage(prompt string) string {
	return fmt.Sprintf("Generate records based on this prompt: %s", prompt)
}

// Generate performs one blocking round trip. Failures are returned as-is to
// the caller; nothing is retried.
func (g *Generator) Generate(ctx context.Context, instructions string, shape schema.Shape, prompt string) (records.Reply, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instructions, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(shape),
	}

	g.logger.Debug("sending generation request",
		zap.String("model", g.model),
		zap.Int("fields", len(shape.Fields)),
	)

	result, err := g.models.GenerateContent(ctx, g.model, genai.Text(UserMessage(prompt)), config)
	if err != nil {
		return records.Reply{}, fmt.Errorf("call to gemini failed: %w", err)
	}

	text := result.Text()
	reply := DecodeReply(text)

	g.logger.Debug("received generation reply",
		zap.Int("bytes", len(text)),
		zap.String("kind", reply.Kind()),
	)

	return reply, nil
}

// MappingDescription tells the model how to fill a mapping field.
const MappingDescription = "a JSON object serialized as a string"

// ResponseSchema maps the output contract onto Gemini's response schema.
func ResponseSchema(shape schema.Shape) *genai.Schema {
	record := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(shape.Fields)),
	}

	for _, f := range shape.Fields {
		record.Properties[f.Name] = fieldSchema(f.Kind)
		record.Required = append(record.Required, f.Name)
		record.PropertyOrdering = append(record.PropertyOrdering, f.Name)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			schema.RecordsField: {Type: genai.TypeArray, Items: record},
			schema.CountField:   {Type: genai.TypeInteger},
		},
		Required:         []string{schema.RecordsField, schema.CountField},
		PropertyOrdering: []string{schema.RecordsField, schema.CountField},
	}
}

func fieldSchema(k schema.Kind) *genai.Schema {
	switch k {
	case schema.KindInteger:
		return &genai.Schema{Type: genai.TypeInteger}
	case schema.KindFloat:
		return &genai.Schema{Type: genai.TypeNumber}
	case schema.KindBoolean:
		return &genai.Schema{Type: genai.TypeBoolean}
	case schema.KindList:
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	case schema.KindMapping:
		// Gemini rejects OBJECT schemas without properties, and a mapping
		// field declares none.
		return &genai.Schema{Type: genai.TypeString, Description: MappingDescription}
	default:
		return &genai.Schema{Type: genai.TypeString}
	}
}

// DecodeReply classifies reply text. A JSON object, fenced or not, carrying a
// `records` key is a structured payload; a `records` value that is null or not
// a list is a structured payload with no records. Anything else is handed on
// as raw text.
func DecodeReply(text string) records.Reply {
	content := records.StripFence(text)
	if !strings.HasPrefix(content, "{") {
		return records.TextReply(text)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return records.TextReply(text)
	}

	value, present := payload[schema.RecordsField]
	if !present {
		return records.TextReply(text)
	}

	out := records.FinalOutput{Count: countOf(payload)}

	list, _ := value.([]any)
	out.Records = make([]records.Source, 0, len(list))
	for _, item := range list {
		obj, _ := item.(map[string]any)
		out.Records = append(out.Records, records.SourceMap(obj))
	}

	return records.StructuredReply(out)
}

func countOf(payload map[string]any) int {
	n, ok := payload[schema.CountField].(json.Number)
	if !ok {
		return 0
	}
	count, err := n.Int64()
	if err != nil {
		return 0
	}
	return int(count)
}
