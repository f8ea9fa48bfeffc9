// Package fuzztests houses Go fuzz harnesses that exercise the
// snapshot codec and the annotation store (raw bytes -> msgpack ->
// payload validation -> map -> cursor lookups). Its goal is to smoke
// test robustness: arbitrary or corrupted input may be rejected, but
// must never panic, hang, or produce a map that violates the lookup
// contract.
package fuzztests
