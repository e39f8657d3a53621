// Package election turns the election-results workbook into canonical
// per-station records.
//
// The 2009, 2014 and 2019 sheets share a fixed column prefix (year, assembly
// id, station number) followed by party vote columns at known positions; each
// is described by a FixedLayout. The 2024 sheet is grouped into blocks headed
// by an assembly name with no numeric id; BlockLayout parses it and Reconcile
// maps the names onto identifiers already present in the store.
//
// Every record stores vote shares, votes divided by the station total and
// rounded to 6 decimals, for parties with a positive count only. A station
// whose total is zero produces no record.
package election
