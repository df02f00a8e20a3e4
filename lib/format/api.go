/*
	Package format provides convenience functions for formatting.
*/
package format

var (
	TimeFormatSeconds    string = "02 Jan 2006 15:04:05 MST"
	TimeFormatSubseconds string = "02 Jan 2006 15:04:05.99 MST"
)
