package policyserver

import "github.com/robolink/policyclient/pkg/policy"

// EchoPolicy returns each observation unchanged. Useful for local
// development and smoke-testing clients without a real model.
type EchoPolicy struct{}

// Infer implements policy.Policy.
func (EchoPolicy) Infer(obs map[string]any, _ ...policy.InferOption) (map[string]any, error) {
	return obs, nil
}

// Reset implements policy.Policy.
func (EchoPolicy) Reset() {}
