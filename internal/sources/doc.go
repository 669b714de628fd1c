// Package sources probes registered network sources on demand.
//
// HTTP(S) endpoints get a HEAD request, retried as GET when the server
// answers 405. Any 2xx or 3xx answer marks the source online. Other schemes
// (rtsp, rtmp, smb, ...) are probed with a TCP dial to the host. There is no
// background loop: a probe runs only when a client asks for one.
package sources
