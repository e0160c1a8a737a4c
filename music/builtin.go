package music

// Builtin returns the catalog shipped on the board.
func Builtin() Catalog {
	return Catalog{
		happyBirthday,
		twinkle,
		odeToJoy,
		twoTigers,
		jingleBells,
	}
}

var happyBirthday = Track{
	Name: "Happy Birthday",
	Notes: []Note{
		N(G4, 300), N(G4, 100), N(A4, 400), N(G4, 400), N(C5, 400), N(B4, 800),
		N(G4, 300), N(G4, 100), N(A4, 400), N(G4, 400), N(D5, 400), N(C5, 800),
		N(G4, 300), N(G4, 100), N(G5, 400), N(E5, 400), N(C5, 400), N(B4, 400), N(A4, 800),
		N(F5, 300), N(F5, 100), N(E5, 400), N(C5, 400), N(D5, 400), N(C5, 1200),
	},
}

var twinkle = Track{
	Name: "Twinkle, Twinkle, Little Star",
	Notes: []Note{
		N(C4, 400), N(C4, 400), N(G4, 400), N(G4, 400), N(A4, 400), N(A4, 400), N(G4, 800),
		N(F4, 400), N(F4, 400), N(E4, 400), N(E4, 400), N(D4, 400), N(D4, 400), N(C4, 800),
		N(G4, 400), N(G4, 400), N(F4, 400), N(F4, 400), N(E4, 400), N(E4, 400), N(D4, 800),
		N(G4, 400), N(G4, 400), N(F4, 400), N(F4, 400), N(E4, 400), N(E4, 400), N(D4, 800),
		N(C4, 400), N(C4, 400), N(G4, 400), N(G4, 400), N(A4, 400), N(A4, 400), N(G4, 800),
		N(F4, 400), N(F4, 400), N(E4, 400), N(E4, 400), N(D4, 400), N(D4, 400), N(C4, 800),
	},
}

var odeToJoy = Track{
	Name: "Ode to Joy",
	Notes: []Note{
		N(E4, 400), N(E4, 400), N(F4, 400), N(G4, 400),
		N(G4, 400), N(F4, 400), N(E4, 400), N(D4, 400),
		N(C4, 400), N(C4, 400), N(D4, 400), N(E4, 400),
		N(E4, 600), N(D4, 200), N(D4, 800),
		N(Rest, 200),
		N(E4, 400), N(E4, 400), N(F4, 400), N(G4, 400),
		N(G4, 400), N(F4, 400), N(E4, 400), N(D4, 400),
		N(C4, 400), N(C4, 400), N(D4, 400), N(E4, 400),
		N(D4, 600), N(C4, 200), N(C4, 800),
	},
}

var twoTigers = Track{
	Name: "Two Tigers",
	Notes: []Note{
		N(C4, 400), N(D4, 400), N(E4, 400), N(C4, 400),
		N(C4, 400), N(D4, 400), N(E4, 400), N(C4, 400),
		N(E4, 400), N(F4, 400), N(G4, 800),
		N(E4, 400), N(F4, 400), N(G4, 800),
		N(G4, 200), N(A4, 200), N(G4, 200), N(F4, 200), N(E4, 400), N(C4, 400),
		N(G4, 200), N(A4, 200), N(G4, 200), N(F4, 200), N(E4, 400), N(C4, 400),
		N(C4, 400), N(G3, 400), N(C4, 800),
		N(C4, 400), N(G3, 400), N(C4, 800),
	},
}

var jingleBells = Track{
	Name: "Jingle Bells",
	Notes: []Note{
		N(E5, 300), N(E5, 300), N(E5, 600),
		N(E5, 300), N(E5, 300), N(E5, 600),
		N(E5, 300), N(G5, 300), N(C5, 450), N(D5, 150), N(E5, 1200),
		N(Rest, 150),
		N(F5, 300), N(F5, 300), N(F5, 450), N(F5, 150),
		N(F5, 300), N(E5, 300), N(E5, 300), N(E5, 150), N(E5, 150),
		N(E5, 300), N(D5, 300), N(D5, 300), N(E5, 300),
		N(D5, 600), N(G5, 600),
	},
}
