// Package models defines the core domain records for the Verial
// local-services marketplace.
//
// # Overview
//
// The marketplace is two-sided: customers book listed services or post job
// requests, providers publish listings and submit quotes. The records here
// map one-to-one onto storage rows:
//   - Provider: a service provider account with plan, verification and
//     rating aggregates
//   - Listing: a published service offering
//   - Booking: a customer's booking of a listing, with a status lifecycle
//   - JobRequest / JobQuote: the "post a job, collect quotes" flow
//   - Review: a customer review tied to a completed booking
//   - ProviderEarning: the fee split recorded when a booking is paid
//   - Payout: a provider's request to withdraw accumulated earnings
//   - AdminUser: a local admin-panel account
//
// # Design Principles
//
//  1. All money is integer cents; no fractional currency anywhere.
//  2. Records reference each other by ID strings, never by pointer, to
//     avoid circular ownership.
//  3. End-user identity (customers, provider logins) comes from the hosted
//     identity provider; those IDs are opaque strings here. Only admin
//     accounts are stored locally.
//  4. Inputs to the earnings split (price, fee basis points) are
//     snapshotted onto the booking at creation time so later plan or fee
//     changes never rewrite history.
package models
