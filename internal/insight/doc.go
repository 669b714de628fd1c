// Package insight is the AI Insight Gateway: short captions for media items
// and generated cover images for imported video.
//
// There are two implementations. Gemini talks to the Google generative AI API
// through a rate limiter and a circuit breaker; Static is used when no API key
// is configured. Both satisfy Gateway, whose operations never fail: any
// transport, quota, auth or parsing problem degrades to FallbackDescription
// or a nil image.
package insight
