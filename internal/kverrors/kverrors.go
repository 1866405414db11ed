// Package kverrors defines the closed set of error classifications used
// across the store: every error that crosses an engine, codec, or server
// boundary carries one of these codes so callers can branch on Is* without
// string matching.
package kverrors

import (
	xgxerror "github.com/xgx-io/xgx-error"
)

// Code values specific to the key-value store. They live alongside, not
// instead of, xgx-error's built-in codes — HasCode works across both sets.
const (
	CodeIO                    xgxerror.Code = "kv_io"
	CodeCodec                 xgxerror.Code = "kv_codec"
	CodeKeyNotFound           xgxerror.Code = "kv_key_not_found"
	CodeDirPathExpected       xgxerror.Code = "kv_dir_path_expected"
	CodeUnexpectedFilesInPath xgxerror.Code = "kv_unexpected_files_in_path"
	CodeUnexpectedLogFile     xgxerror.Code = "kv_unexpected_log_file"
	CodeInvalidAddress        xgxerror.Code = "kv_invalid_address"
	CodeEngineBackend         xgxerror.Code = "kv_engine_backend"
	CodeLock                  xgxerror.Code = "kv_lock"
)

// IO wraps an underlying filesystem/network error as a store I/O failure.
func IO(err error) xgxerror.Error {
	return xgxerror.Ctx(err, "io error").Code(CodeIO)
}

// Codec wraps an encoding/decoding error (record or wire frame).
func Codec(err error) xgxerror.Error {
	return xgxerror.Ctx(err, "codec error").Code(CodeCodec)
}

// KeyNotFound reports that key has no live entry in the engine.
func KeyNotFound(key string) xgxerror.Error {
	return xgxerror.New("key not found").Code(CodeKeyNotFound).With("key", key)
}

// DirPathExpected reports that a configured data path exists but is not a directory.
func DirPathExpected(path string) xgxerror.Error {
	return xgxerror.New("expected a directory").Code(CodeDirPathExpected).With("path", path)
}

// UnexpectedFilesInPath reports that the data directory contains entries the
// engine does not recognize as belonging to it.
func UnexpectedFilesInPath(path string) xgxerror.Error {
	return xgxerror.New("unexpected files in data directory").Code(CodeUnexpectedFilesInPath).With("path", path)
}

// UnexpectedLogFile reports that the single file found in an otherwise-empty
// data directory is not the expected log file name.
func UnexpectedLogFile(path, found string) xgxerror.Error {
	return xgxerror.New("unexpected log file").Code(CodeUnexpectedLogFile).With("path", path).With("found", found)
}

// InvalidAddress reports a malformed listen/dial address.
func InvalidAddress(addr string, err error) xgxerror.Error {
	return xgxerror.Ctx(err, "invalid address").Code(CodeInvalidAddress).With("addr", addr)
}

// EngineBackend reports an unrecognized or misconfigured engine backend name.
func EngineBackend(name string) xgxerror.Error {
	return xgxerror.New("unknown engine backend").Code(CodeEngineBackend).With("engine", name)
}

// Backend wraps a failure reported by an alternative engine backend.
func Backend(err error) xgxerror.Error {
	return xgxerror.Ctx(err, "engine backend error").Code(CodeEngineBackend)
}

// Lock wraps a failure to acquire or release an internal synchronization primitive.
func Lock(err error) xgxerror.Error {
	return xgxerror.Ctx(err, "lock error").Code(CodeLock)
}

// IsKeyNotFound reports whether err (or any error it wraps) is a key-not-found failure.
func IsKeyNotFound(err error) bool { return xgxerror.HasCode(err, CodeKeyNotFound) }

// IsCodec reports whether err (or any error it wraps) is a codec failure.
func IsCodec(err error) bool { return xgxerror.HasCode(err, CodeCodec) }

// IsIO reports whether err (or any error it wraps) is an I/O failure.
func IsIO(err error) bool { return xgxerror.HasCode(err, CodeIO) }
