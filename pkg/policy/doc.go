// Package policy implements the client side of the websocket inference
// protocol: connect to a policy server, capture its metadata, then exchange
// one request for one response per call.
//
// Invariants:
// - The connection is established once, during construction, and never
//   replaced; construction blocks until a server is reachable.
// - Exactly one metadata frame is consumed before any request is sent.
// - One request is in flight at a time; callers sharing a client across
//   goroutines must serialize access themselves.
// - A text reply frame carries a server-reported error; a binary frame
//   carries an encoded result.
//
// Usage:
//
//	client, err := policy.NewWebsocketClientPolicy(policy.ClientConfig{Host: "robot.local", Port: 8000})
//	if err != nil {
//		return err
//	}
//	result, err := client.Infer(obs, policy.WithTimeout(2*time.Second))
package policy
