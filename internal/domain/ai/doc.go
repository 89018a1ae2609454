/*
Package ai provides the assistant backend used by the chat window and the
terminal's ai command.

The Gemini client speaks the public REST API. Whole replies come from
generateContent, streamed replies from streamGenerateContent over
server-sent events. Requests pass through a token bucket, a circuit breaker
and a retrying transport before reaching the network.

Failures never surface as Go errors. A missing key yields MsgNoKey, an
upstream error yields "Error: <message>" and an empty candidate list yields
MsgNoResponse. Model output is stripped of markup before it is returned.
*/
package ai
