// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor runs the event side of the runtime: one background OS
// thread blocks on the event queue and wakes the task whose token became
// ready.
package reactor
