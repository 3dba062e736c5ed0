// Package codec packs recommendations into protobuf Struct envelopes for the
// audit ledger.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"bridge-lite/advisor"
)

const (
	KindRecommendation = "recommendation"

	fieldKind    = "kind"
	fieldTsMs    = "tsMs"
	fieldPayload = "payload"
)

// Envelope is the decoded form of a ledger payload.
type Envelope struct {
	Kind           string
	TsMs           int64
	Recommendation *advisor.Recommendation
}

// RecommendationToProto converts a recommendation to a Struct through its
// JSON form so field names match the HTTP API.
func RecommendationToProto(rec *advisor.Recommendation) (*structpb.Struct, error) {
	if rec == nil {
		return nil, fmt.Errorf("codec: nil recommendation")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal recommendation: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("codec: recommendation fields: %w", err)
	}
	return structpb.NewStruct(fields)
}

func RecommendationFromProto(s *structpb.Struct) (*advisor.Recommendation, error) {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return nil, fmt.Errorf("codec: struct to json: %w", err)
	}
	var rec advisor.Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("codec: decode recommendation: %w", err)
	}
	return &rec, nil
}

// WrapRecommendation creates the envelope struct with common fields.
func WrapRecommendation(rec *advisor.Recommendation, at time.Time) (*structpb.Struct, error) {
	payload, err := RecommendationToProto(rec)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldKind:    structpb.NewStringValue(KindRecommendation),
		fieldTsMs:    structpb.NewNumberValue(float64(at.UnixMilli())),
		fieldPayload: structpb.NewStructValue(payload),
	}}, nil
}

// EncodeRecommendation returns the wire bytes of the wrapped envelope.
func EncodeRecommendation(rec *advisor.Recommendation, at time.Time) ([]byte, error) {
	env, err := WrapRecommendation(rec, at)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(env)
}

func EncodeRecommendationB64(rec *advisor.Recommendation, at time.Time) (string, error) {
	raw, err := EncodeRecommendation(rec, at)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func Decode(raw []byte) (*Envelope, error) {
	var env structpb.Struct
	if err := proto.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("codec: unmarshal envelope: %w", err)
	}
	out := &Envelope{
		Kind: env.GetFields()[fieldKind].GetStringValue(),
		TsMs: int64(env.GetFields()[fieldTsMs].GetNumberValue()),
	}
	switch out.Kind {
	case KindRecommendation:
		payload := env.GetFields()[fieldPayload].GetStructValue()
		if payload == nil {
			return nil, fmt.Errorf("codec: envelope has no payload")
		}
		rec, err := RecommendationFromProto(payload)
		if err != nil {
			return nil, err
		}
		out.Recommendation = rec
	default:
		return nil, fmt.Errorf("codec: unknown envelope kind %q", out.Kind)
	}
	return out, nil
}

func DecodeB64(s string) (*Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("codec: base64: %w", err)
	}
	return Decode(raw)
}
