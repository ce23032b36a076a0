// Package tts bridges to the Python speech synthesis script.
//
// The script is invoked as a subprocess per request: it loads the model,
// synthesizes, and prints a JSON result object as its final stdout line
// (progress chatter precedes it, so the parser scans backwards for the last
// parseable JSON object). Runs are bounded at five minutes and the process
// is killed on timeout.
package tts
