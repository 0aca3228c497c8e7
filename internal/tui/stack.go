package tui

import tea "github.com/charmbracelet/bubbletea"

// ComponentStack is a stack of components. Only the top one receives
// updates and is rendered.
type ComponentStack struct {
	components    []Component
	width, height int
}

// NewComponentStack creates a new component stack.
func NewComponentStack(initial ...Component) *ComponentStack {
	return &ComponentStack{
		components: initial,
	}
}

// Push adds a component to the top of the stack.
func (s *ComponentStack) Push(c Component) tea.Cmd {
	c.Resize(s.width, s.height)
	s.components = append(s.components, c)
	return c.Init()
}

// Pop removes the top component if there is more than one component on the
// stack.
func (s *ComponentStack) Pop() {
	if len(s.components) <= 1 {
		return
	}
	s.components = s.components[:len(s.components)-1]
}

func (s *ComponentStack) Len() int {
	return len(s.components)
}

// Top returns the component that receives input.
func (s *ComponentStack) Top() Component {
	if len(s.components) == 0 {
		return nil
	}
	return s.components[len(s.components)-1]
}

// Resize resizes every component so popping reveals a laid out view.
func (s *ComponentStack) Resize(width, height int) {
	s.width, s.height = width, height
	for _, c := range s.components {
		c.Resize(width, height)
	}
}

// Update updates the top component on the stack.
func (s *ComponentStack) Update(msg tea.Msg) tea.Cmd {
	top := s.Top()
	if top == nil {
		return nil
	}
	newComp, cmd := top.Update(msg)
	s.components[len(s.components)-1] = newComp
	return cmd
}

// UpdateBase updates the bottom component even when another is on top.
func (s *ComponentStack) UpdateBase(msg tea.Msg) tea.Cmd {
	if len(s.components) == 0 {
		return nil
	}
	newComp, cmd := s.components[0].Update(msg)
	s.components[0] = newComp
	return cmd
}

// View returns the view of the top component on the stack.
func (s *ComponentStack) View() string {
	top := s.Top()
	if top == nil {
		return ""
	}
	return top.View()
}
