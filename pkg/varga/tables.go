package varga

import "github.com/matzehuels/jyotish/pkg/astro"

// startRule picks the first divisional sign for a natal sign.
type startRule func(s astro.Sign) astro.Sign

func self(s astro.Sign) astro.Sign { return s }

func sign(x astro.Sign) startRule { return func(astro.Sign) astro.Sign { return x } }

// nth starts from the nth sign counted inclusively from the natal sign.
func nth(n int) startRule { return func(s astro.Sign) astro.Sign { return s.Add(n - 1) } }

func parity(odd, even startRule) startRule {
	return func(s astro.Sign) astro.Sign {
		if s.IsOdd() {
			return odd(s)
		}
		return even(s)
	}
}

func element(fire, earth, air, water astro.Sign) startRule {
	by := [4]astro.Sign{fire, earth, air, water}
	return func(s astro.Sign) astro.Sign { return by[s.Element()] }
}

func quality(movable, fixed, dual astro.Sign) startRule {
	by := [3]astro.Sign{movable, fixed, dual}
	return func(s astro.Sign) astro.Sign { return by[s.Quality()] }
}

func starts(r startRule) (out [12]astro.Sign) {
	for i := range out {
		out[i] = r(astro.Sign(i + 1))
	}
	return out
}

func steps(odd, even int) (out [12]int) {
	for i := range out {
		if astro.Sign(i + 1).IsOdd() {
			out[i] = odd
		} else {
			out[i] = even
		}
	}
	return out
}

var parashari = []Descriptor{
	{N: 1, Name: "Rashi", Start: starts(self)},
	{N: 2, Name: "Hora", Start: starts(parity(sign(astro.Leo), sign(astro.Cancer))), Step: steps(-1, 1)},
	{N: 3, Name: "Drekkana", Start: starts(self), Step: steps(4, 4)},
	{N: 4, Name: "Chaturthamsha", Start: starts(self), Step: steps(3, 3)},
	{N: 7, Name: "Saptamsha", Start: starts(parity(self, nth(7)))},
	{N: 9, Name: "Navamsha", Start: starts(element(astro.Aries, astro.Capricorn, astro.Libra, astro.Cancer))},
	{N: 10, Name: "Dashamsha", Start: starts(parity(self, nth(9)))},
	{N: 12, Name: "Dwadashamsha", Start: starts(self)},
	{N: 16, Name: "Shodashamsha", Start: starts(quality(astro.Aries, astro.Leo, astro.Sagittarius))},
	{N: 20, Name: "Vimshamsha", Start: starts(quality(astro.Aries, astro.Sagittarius, astro.Leo))},
	{N: 24, Name: "Chaturvimshamsha", Start: starts(parity(sign(astro.Leo), sign(astro.Cancer)))},
	{N: 27, Name: "Bhamsha", Start: starts(element(astro.Aries, astro.Cancer, astro.Libra, astro.Capricorn))},
	{
		N: 30, Name: "Trimshamsha",
		Odd: []Slot{
			{5, astro.Aries}, {10, astro.Aquarius}, {18, astro.Sagittarius}, {25, astro.Gemini}, {30, astro.Taurus},
		},
		Even: []Slot{
			{5, astro.Taurus}, {12, astro.Gemini}, {20, astro.Sagittarius}, {25, astro.Aquarius}, {30, astro.Scorpio},
		},
	},
	{N: 40, Name: "Khavedamsha", Start: starts(parity(sign(astro.Aries), sign(astro.Libra)))},
	{N: 45, Name: "Akshavedamsha", Start: starts(quality(astro.Aries, astro.Leo, astro.Sagittarius))},
	{N: 60, Name: "Shashtiamsha", Start: starts(self)},
}
