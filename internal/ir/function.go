package ir

// Function is a function body together with its tracked local-variable
// registry. Functions are expressions so closures can nest.
type Function struct {
	Name       string
	Parameters []*Variable
	Body       *Block

	variables map[string]*Variable
	order     []string
}

func (*Function) expression() {}

func (f *Function) Children() []Node {
	if f.Body == nil {
		return nil
	}
	return []Node{f.Body}
}

func (f *Function) ReplaceChild(old, new Node) bool {
	if f.Body == nil || Node(f.Body) != old {
		return false
	}
	nb, ok := new.(*Block)
	if !ok {
		return false
	}
	f.Body = nb
	return true
}

// RegisterVariable adds v to the registry. Re-registering a name replaces
// the entry but keeps its original position.
func (f *Function) RegisterVariable(v *Variable) {
	if f.variables == nil {
		f.variables = make(map[string]*Variable)
	}
	if _, ok := f.variables[v.Name]; !ok {
		f.order = append(f.order, v.Name)
	}
	f.variables[v.Name] = v
}

// LookupVariable returns the registered variable named name.
func (f *Function) LookupVariable(name string) (*Variable, bool) {
	v, ok := f.variables[name]
	return v, ok
}

// RemoveVariable drops name from the registry. Removing an absent name is a no-op.
func (f *Function) RemoveVariable(name string) bool {
	if _, ok := f.variables[name]; !ok {
		return false
	}
	delete(f.variables, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

// VariableNames returns registered names in registration order.
func (f *Function) VariableNames() []string {
	names := make([]string, len(f.order))
	copy(names, f.order)
	return names
}

// Module is one decoded IR document.
type Module struct {
	IRVersion string
	Name      string
	Functions []*Function
}

// Function returns the function named name, or nil.
func (m *Module) Function(name string) *Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}
