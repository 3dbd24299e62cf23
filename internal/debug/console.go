package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/gait/internal/controller"
	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/physics"
	"golang.org/x/term"
)

const (
	defaultTickInterval = 20 * time.Millisecond
	defaultMovePulse    = 180 * time.Millisecond
	yawStep             = 5.0
)

// Controlled is the part of a controller the console drives.
type Controlled interface {
	Tick(dt float64, cam input.Camera) controller.Frame
	Teleport(pos physics.Vec3) error
	Reset(yaw float64)
	Last() controller.Frame
}

type heldKeys struct {
	forward, backward, left, right bool
	run, jump                      bool
}

// Console is a raw-mode terminal that feeds key presses into a manual input
// source and ticks the controller on a fixed interval.
type Console struct {
	ctrl         Controlled
	src          *input.Manual
	out          io.Writer
	tickInterval time.Duration
	movePulse    time.Duration

	simMu sync.Mutex

	mu            sync.Mutex
	keys          heldKeys
	sentMove      input.Vec2
	cameraYaw     float64
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

func NewConsole(ctrl Controlled, src *input.Manual) *Console {
	return &Console{
		ctrl:         ctrl,
		src:          src,
		out:          os.Stdout,
		tickInterval: defaultTickInterval,
		movePulse:    defaultMovePulse,
	}
}

// SetCameraYaw points the console camera, in degrees.
func (c *Console) SetCameraYaw(yaw float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cameraYaw = normalizeYaw(yaw)
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.ctrl == nil {
		return fmt.Errorf("console controller is nil")
	}
	if c.src == nil {
		return fmt.Errorf("console input source is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, ] run, arrows camera, X, :)\r\n")
	return c.run(ctx, os.Stdin)
}

// run ticks the controller and handles keys from r until ctx ends, r fails
// or Ctrl-C arrives. The tick loop has stopped when run returns.
func (c *Console) run(ctx context.Context, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	ticking := make(chan struct{})
	defer func() {
		cancel()
		<-ticking
	}()

	c.renderStatusLine()
	go func() {
		defer close(ticking)
		c.tickLoop(ctx)
	}()

	reader := bufio.NewReader(r)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl-C in raw mode
			return nil
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.step(now, c.tickInterval.Seconds())
			c.renderStatusLine()
		}
	}
}

// step expires movement pulses, pushes the resulting input and ticks once.
func (c *Console) step(now time.Time, dt float64) controller.Frame {
	c.syncInput(now)
	c.mu.Lock()
	cam := input.CameraFromYaw(c.cameraYaw)
	c.mu.Unlock()

	c.simMu.Lock()
	defer c.simMu.Unlock()
	return c.ctrl.Tick(dt, cam)
}

func (c *Console) syncInput(now time.Time) {
	c.mu.Lock()
	c.applyMovementPulseLocked(now)
	move := c.keys.moveVector()
	changed := move != c.sentMove
	c.sentMove = move
	c.mu.Unlock()

	if changed {
		c.src.Move(move.X, move.Y)
	}
}

func (k heldKeys) moveVector() input.Vec2 {
	var v input.Vec2
	if k.forward {
		v.Y++
	}
	if k.backward {
		v.Y--
	}
	if k.right {
		v.X++
	}
	if k.left {
		v.X--
	}
	return v
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.keys.forward, &c.forwardUntil, &c.keys.backward, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.keys.backward, &c.backwardUntil, &c.keys.forward, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.keys.left, &c.leftUntil, &c.keys.right, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.keys.right, &c.rightUntil, &c.keys.left, &c.leftUntil)
	case ' ':
		c.toggleJump()
	case ']':
		c.toggleRun()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.adjustYaw(-yawStep)
		case 'C': // right
			c.adjustYaw(yawStep)
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		f := c.last()
		fmt.Fprintf(c.out, "[debug] %s/%s tick=%d pos=(%.3f,%.3f,%.3f) vy=%.3f yaw=%.1f ground=%t\r\n",
			f.Root, f.Sub, f.Tick,
			f.Position.X, f.Position.Y, f.Position.Z,
			f.VerticalVelocity, f.Yaw, f.Grounded,
		)
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		c.simMu.Lock()
		err := c.ctrl.Teleport(physics.Vec3{X: x, Y: y, Z: z})
		c.simMu.Unlock()
		if err != nil {
			fmt.Fprintf(c.out, "[debug] tp failed: %v\r\n", err)
			return
		}
		fmt.Fprintf(c.out, "[debug] tp set to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	case "yaw":
		if len(parts) != 2 {
			fmt.Fprint(c.out, "[debug] usage: :yaw <degrees>\r\n")
			return
		}
		yaw, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			fmt.Fprint(c.out, "[debug] invalid yaw\r\n")
			return
		}
		c.SetCameraYaw(yaw)
		fmt.Fprintf(c.out, "[debug] camera yaw %.1f\r\n", normalizeYaw(yaw))
	case "reset":
		c.clearInput()
		c.mu.Lock()
		yaw := c.cameraYaw
		c.mu.Unlock()
		c.simMu.Lock()
		c.ctrl.Reset(yaw)
		c.simMu.Unlock()
		fmt.Fprint(c.out, "[debug] controller reset\r\n")
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: toggle jump\r\n")
	fmt.Fprint(c.out, "  ]: toggle run\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: camera yaw +/-5\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :yaw <degrees>\r\n")
	fmt.Fprint(c.out, "  :reset\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	keys := c.keys
	cam := c.cameraYaw
	width := c.statusWidth
	c.mu.Unlock()

	f := c.last()
	line := fmt.Sprintf(
		"[MOV:%s RUN:%s JMP:%s | CAM:%.1f | %s/%s YAW:%.1f | X:%.2f Y:%.2f Z:%.2f ground:%t]",
		boolLabel(keys.moveVector().Pressed()),
		boolLabel(keys.run),
		boolLabel(keys.jump),
		cam,
		f.Root, f.Sub, f.Yaw,
		f.Position.X, f.Position.Y, f.Position.Z,
		f.Grounded,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) last() controller.Frame {
	c.simMu.Lock()
	defer c.simMu.Unlock()
	return c.ctrl.Last()
}

// pulse holds one direction for movePulse and drops its opposite.
func (c *Console) pulse(key *bool, until *time.Time, opposite *bool, oppositeUntil *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*key = true
	*until = time.Now().Add(c.movePulse)
	*opposite = false
	*oppositeUntil = time.Time{}
}

func (c *Console) applyMovementPulseLocked(now time.Time) {
	expire := func(key *bool, until *time.Time) {
		if !until.IsZero() && !now.Before(*until) {
			*key = false
			*until = time.Time{}
		}
	}
	expire(&c.keys.forward, &c.forwardUntil)
	expire(&c.keys.backward, &c.backwardUntil)
	expire(&c.keys.left, &c.leftUntil)
	expire(&c.keys.right, &c.rightUntil)
}

func (c *Console) adjustYaw(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cameraYaw = normalizeYaw(c.cameraYaw + delta)
}

func (c *Console) toggleJump() {
	c.mu.Lock()
	c.keys.jump = !c.keys.jump
	held := c.keys.jump
	c.mu.Unlock()
	c.src.Jump(held)
}

func (c *Console) toggleRun() {
	c.mu.Lock()
	c.keys.run = !c.keys.run
	held := c.keys.run
	c.mu.Unlock()
	c.src.Run(held)
	slog.Debug("debug run toggled", "enabled", held)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	prev := c.keys
	c.keys = heldKeys{}
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.mu.Unlock()

	if prev.run {
		c.src.Run(false)
	}
	if prev.jump {
		c.src.Jump(false)
	}
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func normalizeYaw(yaw float64) float64 {
	for yaw <= -180 {
		yaw += 360
	}
	for yaw > 180 {
		yaw -= 360
	}
	return yaw
}
