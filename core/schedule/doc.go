// Package schedule builds the machine schedule grid: one row per hour of the
// planning timeline, one column per tracked machine. Tasks are charted onto
// their machine column with ordered label rules and calendar exceptions are
// painted as off-duty cells on top of them.
package schedule
