// Package exercise uses the created bucket and queue.
//
// It uploads one object, then runs a message round trip: send, count,
// receive, delete and count again. The received message must carry the
// body and name that were sent.
package exercise
