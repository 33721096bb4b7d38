// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing flow shared by the configuration
// loader and the manifest reader.
//
// Every CUE document shzip reads goes through the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Document](
//	    schema,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("files.cue"),
//	)
//	if err != nil {
//	    return nil, err // carries the CUE path of the offending field
//	}
//	return result.Value, nil
package cueutil
