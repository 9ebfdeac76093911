// Package console plays solitaire on a text terminal.
//
// The driver prints the table, lists the legal actions with their index and
// reads one selection per line: a number plays that action, u undoes the
// last one and q quits.
//
//	###  ♠A       ♠2
//	♡3  ###  ###
//	    ♣K  ###
//	         ♢4
//
// The first line shows the deck, the waste top and the foundation tops; the
// tableau columns follow side by side, with face-down cards as ###.
package console
