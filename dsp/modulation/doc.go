// Package modulation synthesizes carrier-modulated waveforms for the analog
// schemes AM, FM, PM and the binary keyed schemes ASK, PSK, FSK.
//
// Every function is pure: it takes a [signal.Generator] (which fixes the time
// grid) and an explicit parameter record, and returns a [Waveform] holding the
// modulated signal, the carrier and the modulating signal. Identical inputs
// always produce bit-identical outputs.
//
// Closed forms, with m(t) = Am·sin(2π·fm·t) and d(t) ∈ {0, 1}:
//
//	AM:  Ac·(1 + μ·m(t)/Am)·sin(2π·fc·t)
//	FM:  Ac·sin(2π·fc·t + 2π·kf·∫m)      running-sum integral, see [FM]
//	PM:  Ac·sin(2π·fc·t + kp·m(t))
//	ASK: d(t)·Ac·sin(2π·fc·t)
//	PSK: Ac·cos(2π·fc·t + π·d(t))
//	FSK: Ac·sin(2π·(f1 + (f2-f1)·d(t))·t),  f1,2 = fc ∓ Δf/2
package modulation
