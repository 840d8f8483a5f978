// Package service implements the journal's application logic: the daily
// admission policy that records at most one sentence per owner per day, and
// the queries for today's entry and the full history.
package service
