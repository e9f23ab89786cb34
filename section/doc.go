// Package section defines the fixed-size binary headers of a codec stream.
//
// A stream is laid out as:
//
//	+----------------+----------------+---------+----------------+---------+---
//	| StreamHeader   | FrameHeader    | payload | FrameHeader    | payload | ...
//	| 16 bytes       | 28 bytes       |         | 28 bytes       |         |
//	+----------------+----------------+---------+----------------+---------+---
//
// All multi-byte fields are little-endian regardless of host byte order.
// Every frame header starts with a 16-bit sync code so a reader can detect
// misaligned seeks, and carries the absolute index of its first sample so
// frames can be located without decoding their payloads.
package section
