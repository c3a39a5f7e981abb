// Package jsonurl provides:
//
// - Parse and Stringify for JSON->URL text, a compact URL-safe rendering of JSON values
// - An ordered Value tree (null, bool, number, string, array, object) that round-trips losslessly
// - The address-bar-friendly (AQF) dialect, implied top-level composites and x-www-form-urlencoded interop
// - Hard limits on input length, nesting depth and value count for untrusted input
// - A stable error model: SyntaxError and LimitError with codes and byte offsets
//
// Design policy:
// - Keep only public APIs in the root package; put the classifier and parse stacks under internal/.
// - Place JSON/YAML bridges under source/, typed codecs under codec/, HTTP helpers under middleware/ and the CLI under cmd/jsonurl.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := jsonurl.Parse("(name:(first:Fred),age:64)", nil)
//	text, err := jsonurl.Stringify(v, nil)
//
//	opt := jsonurl.DefaultParseOptions()
//	opt.ImpliedObject = jsonurl.NewObject()
//	opt.WWWFormURLEncoded = true
//	q, err := jsonurl.Parse("a=1&b=(x,y)", opt)
package jsonurl
