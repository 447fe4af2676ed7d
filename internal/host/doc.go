// Package host provides the scene controllers a snapshot run can drive.
//
// Software renders every frame in-process and needs no display. Window shows
// the frames in a fyne window and captures its canvas, behaving like an
// interactive modelling tool whose viewport repaints asynchronously.
package host
