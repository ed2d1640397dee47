// Package report assembles evidence documents and renders them to XLSX.
//
// The assembler builds an ordered section list from the unreported
// construction rows plus every testing group for one item, hands it to a
// DocumentWriter, and marks the consumed construction rows as reported only
// after the writer confirms the save. Testing rows are never flagged; they
// recur in every report for the item.
package report
