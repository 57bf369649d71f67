package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/opscart/stack-advisor/pkg/models"
)

// Pod labels naming the cluster service and component a pod runs
const (
	LabelService   = "stack-advisor/service"
	LabelComponent = "stack-advisor/component"
)

type Scanner struct {
	clientset kubernetes.Interface
	log       logr.Logger
}

// Topology is the discovered part of an advisory request
type Topology struct {
	Services []models.Service `json:"services" yaml:"services"`
	Hosts    []models.Host    `json:"hosts" yaml:"hosts"`
}

// New connects to the cluster of kubeconfig, defaulting to ~/.kube/config
func New(kubeconfig string, log logr.Logger) (*Scanner, error) {
	if kubeconfig == "" {
		if home := homedir.HomeDir(); home != "" {
			kubeconfig = filepath.Join(home, ".kube", "config")
		}
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return NewWithClient(clientset, log), nil
}

// NewWithClient creates a scanner over an existing clientset
func NewWithClient(clientset kubernetes.Interface, log logr.Logger) *Scanner {
	return &Scanner{
		clientset: clientset,
		log:       log.WithName("scanner"),
	}
}

// Discover maps cluster nodes to hosts and labelled pods to service
// component placements. An empty namespace scans all namespaces.
func (s *Scanner) Discover(ctx context.Context, namespace string) (*Topology, error) {
	version, err := s.clientset.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}
	s.log.V(1).Info("Connected to cluster", "version", version.GitVersion)

	nodes, err := s.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	topo := &Topology{}
	for _, node := range nodes.Items {
		memKB := int64(0)
		if mem := node.Status.Capacity.Memory(); mem != nil {
			memKB = mem.Value() / 1024
		}
		cpu := 0
		if c := node.Status.Capacity.Cpu(); c != nil {
			cpu = int(c.Value())
		}
		topo.Hosts = append(topo.Hosts, models.Host{Name: node.Name, TotalMemKB: memKB, CPUCount: cpu})
	}
	sort.Slice(topo.Hosts, func(i, j int) bool { return topo.Hosts[i].Name < topo.Hosts[j].Name })

	pods, err := s.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: LabelService})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	// service -> component -> host set
	placements := map[string]map[string]map[string]bool{}
	for _, pod := range pods.Items {
		service := strings.ToUpper(pod.Labels[LabelService])
		component := strings.ToUpper(pod.Labels[LabelComponent])
		if component == "" {
			s.log.Info("Skipping pod without component label", "pod", pod.Namespace+"/"+pod.Name)
			continue
		}
		if pod.Spec.NodeName == "" {
			s.log.V(1).Info("Skipping unscheduled pod", "pod", pod.Namespace+"/"+pod.Name)
			continue
		}
		if placements[service] == nil {
			placements[service] = map[string]map[string]bool{}
		}
		if placements[service][component] == nil {
			placements[service][component] = map[string]bool{}
		}
		placements[service][component][pod.Spec.NodeName] = true
	}

	for _, service := range sortedKeys(placements) {
		svc := models.Service{Name: service}
		for _, component := range sortedKeys(placements[service]) {
			svc.Components = append(svc.Components, models.Component{
				Name:  component,
				Hosts: sortedKeys(placements[service][component]),
			})
		}
		topo.Services = append(topo.Services, svc)
	}

	s.log.Info("Discovered topology", "hosts", len(topo.Hosts), "services", len(topo.Services))
	return topo, nil
}

// MergeInto adds discovered services and hosts the request does not
// already describe. Entries present in the request win.
func (t *Topology) MergeInto(req *models.Request) {
	for _, svc := range t.Services {
		if !req.HasService(svc.Name) {
			req.Services = append(req.Services, svc)
		}
	}
	for _, h := range t.Hosts {
		if _, ok := req.Host(h.Name); !ok {
			req.Hosts = append(req.Hosts, h)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
