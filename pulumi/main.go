package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pulumi/pulumi-digitalocean/sdk/v4/go/digitalocean"
	"github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes"
	appsv1 "github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes/apps/v1"
	corev1 "github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes/core/v1"
	metav1 "github.com/pulumi/pulumi-kubernetes/sdk/v4/go/kubernetes/meta/v1"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const (
	appName  = "cinema-booking"
	httpPort = 8080
)

type settings struct {
	region      string
	nodeSize    string
	nodeCount   int
	image       string
	apiReplicas int
	workers     int
	cacheSize   int
	cacheTTLMs  int
	logLevel    string
	jwtSecret   pulumi.StringOutput
}

func loadSettings(ctx *pulumi.Context) settings {
	cfg := config.New(ctx, "")
	s := settings{
		region:      cfg.Get("region"),
		nodeSize:    cfg.Get("nodeSize"),
		nodeCount:   cfg.GetInt("nodeCount"),
		image:       cfg.Get("image"),
		apiReplicas: cfg.GetInt("apiReplicas"),
		workers:     cfg.GetInt("notificationWorkers"),
		cacheSize:   cfg.GetInt("cacheMaxSize"),
		cacheTTLMs:  cfg.GetInt("cacheTtlMs"),
		logLevel:    cfg.Get("logLevel"),
		jwtSecret:   cfg.RequireSecret("jwtSecret"),
	}
	if s.region == "" {
		s.region = "blr1" // Bangalore, India
	}
	if s.nodeSize == "" {
		s.nodeSize = "s-2vcpu-4gb"
	}
	if s.nodeCount == 0 {
		s.nodeCount = 2
	}
	if s.image == "" {
		s.image = "registry.digitalocean.com/cinema/cinema-service:latest"
	}
	if s.apiReplicas == 0 {
		s.apiReplicas = 2
	}
	if s.workers == 0 {
		s.workers = 10
	}
	if s.cacheSize == 0 {
		s.cacheSize = 100
	}
	if s.cacheTTLMs == 0 {
		s.cacheTTLMs = 600000
	}
	if s.logLevel == "" {
		s.logLevel = "info"
	}
	return s
}

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		s := loadSettings(ctx)

		vpc, err := digitalocean.NewVpc(ctx, appName+"-vpc", &digitalocean.VpcArgs{
			Name:    pulumi.String(appName + "-vpc"),
			Region:  pulumi.String(s.region),
			IpRange: pulumi.String("10.20.0.0/16"),
		})
		if err != nil {
			return err
		}

		cluster, err := digitalocean.NewKubernetesCluster(ctx, appName+"-cluster", &digitalocean.KubernetesClusterArgs{
			Name:    pulumi.String(appName + "-cluster"),
			Region:  pulumi.String(s.region),
			Version: pulumi.String("1.31.9-do.2"),
			VpcUuid: vpc.ID(),
			NodePool: &digitalocean.KubernetesClusterNodePoolArgs{
				Name:      pulumi.String("default"),
				Size:      pulumi.String(s.nodeSize),
				NodeCount: pulumi.Int(s.nodeCount),
			},
		})
		if err != nil {
			return err
		}

		// Object cache lives in each API pod; these hold the tables, the
		// visit counters and the purchase notifications.
		database, err := newManagedCluster(ctx, "postgres", "pg", "15", "db-s-1vcpu-1gb", 1, s.region, vpc)
		if err != nil {
			return err
		}
		valkey, err := newManagedCluster(ctx, "valkey", "valkey", "8", "db-s-1vcpu-1gb", 1, s.region, vpc)
		if err != nil {
			return err
		}
		kafkaCluster, err := newManagedCluster(ctx, "kafka", "kafka", "3.8", "db-s-2vcpu-2gb", 3, s.region, vpc)
		if err != nil {
			return err
		}

		k8sProvider, err := kubernetes.NewProvider(ctx, "k8s-provider", &kubernetes.ProviderArgs{
			Kubeconfig: cluster.KubeConfigs.Index(pulumi.Int(0)).RawConfig(),
		})
		if err != nil {
			return err
		}
		onCluster := pulumi.Provider(k8sProvider)

		namespace, err := corev1.NewNamespace(ctx, appName+"-namespace", &corev1.NamespaceArgs{
			Metadata: &metav1.ObjectMetaArgs{
				Name: pulumi.String(appName),
			},
		}, onCluster)
		if err != nil {
			return err
		}

		// Keys match the env tags of cinema-service/config
		configMap, err := corev1.NewConfigMap(ctx, appName+"-config", &corev1.ConfigMapArgs{
			Metadata: &metav1.ObjectMetaArgs{
				Name:      pulumi.String(appName + "-config"),
				Namespace: namespace.Metadata.Name(),
			},
			Data: pulumi.StringMap{
				"PORT":                     pulumi.Sprintf("%d", httpPort),
				"LOG_LEVEL":                pulumi.String(s.logLevel),
				"STORAGE":                  pulumi.String("postgres"),
				"DB_HOST":                  database.PrivateHost,
				"DB_PORT":                  pulumi.Sprintf("%v", database.Port),
				"DB_NAME":                  database.Database,
				"DB_USER":                  database.User,
				"DB_SSL_MODE":              pulumi.String("require"),
				"CACHE_MAX_SIZE":           pulumi.Sprintf("%d", s.cacheSize),
				"CACHE_TTL_MS":             pulumi.Sprintf("%d", s.cacheTTLMs),
				"REDIS_ENABLED":            pulumi.String("true"),
				"REDIS_HOST":               valkey.PrivateHost,
				"REDIS_PORT":               pulumi.Sprintf("%v", valkey.Port),
				"KAFKA_ENABLED":            pulumi.String("true"),
				"KAFKA_BROKERS":            pulumi.Sprintf("%s:%v", kafkaCluster.PrivateHost, kafkaCluster.Port),
				"KAFKA_NOTIFICATION_TOPIC": pulumi.String("ticket-notifications"),
				"KAFKA_CONSUMER_GROUP":     pulumi.String("cinema-notifications"),
				"WORKER_MAX_WORKERS":       pulumi.Sprintf("%d", s.workers),
			},
		}, onCluster)
		if err != nil {
			return err
		}

		secret, err := corev1.NewSecret(ctx, appName+"-secret", &corev1.SecretArgs{
			Metadata: &metav1.ObjectMetaArgs{
				Name:      pulumi.String(appName + "-secret"),
				Namespace: namespace.Metadata.Name(),
			},
			StringData: pulumi.StringMap{
				"DB_PASSWORD":    database.Password,
				"REDIS_PASSWORD": valkey.Password,
				"JWT_SECRET":     s.jwtSecret,
			},
		}, onCluster)
		if err != nil {
			return err
		}

		if err := newRegistrySecret(ctx, namespace, onCluster); err != nil {
			return err
		}

		env := corev1.EnvFromSourceArray{
			&corev1.EnvFromSourceArgs{
				ConfigMapRef: &corev1.ConfigMapEnvSourceArgs{Name: configMap.Metadata.Name()},
			},
			&corev1.EnvFromSourceArgs{
				SecretRef: &corev1.SecretEnvSourceArgs{Name: secret.Metadata.Name()},
			},
		}

		apiLabels := pulumi.StringMap{"app": pulumi.String(appName + "-api")}
		_, err = appsv1.NewDeployment(ctx, appName+"-api", &appsv1.DeploymentArgs{
			Metadata: &metav1.ObjectMetaArgs{
				Name:      pulumi.String(appName + "-api"),
				Namespace: namespace.Metadata.Name(),
			},
			Spec: &appsv1.DeploymentSpecArgs{
				Replicas: pulumi.Int(s.apiReplicas),
				Selector: &metav1.LabelSelectorArgs{MatchLabels: apiLabels},
				Template: &corev1.PodTemplateSpecArgs{
					Metadata: &metav1.ObjectMetaArgs{Labels: apiLabels},
					Spec: &corev1.PodSpecArgs{
						Containers: corev1.ContainerArray{
							&corev1.ContainerArgs{
								Name:    pulumi.String("api"),
								Image:   pulumi.String(s.image),
								Command: pulumi.StringArray{pulumi.String("/app/cinema-service")},
								EnvFrom: env,
								Ports: corev1.ContainerPortArray{
									&corev1.ContainerPortArgs{ContainerPort: pulumi.Int(httpPort)},
								},
								ReadinessProbe: &corev1.ProbeArgs{
									HttpGet: &corev1.HTTPGetActionArgs{
										Path: pulumi.String("/health"),
										Port: pulumi.Int(httpPort),
									},
									PeriodSeconds: pulumi.Int(10),
								},
							},
						},
					},
				},
			},
		}, onCluster)
		if err != nil {
			return err
		}

		apiService, err := corev1.NewService(ctx, appName+"-api", &corev1.ServiceArgs{
			Metadata: &metav1.ObjectMetaArgs{
				Name:      pulumi.String(appName + "-api"),
				Namespace: namespace.Metadata.Name(),
			},
			Spec: &corev1.ServiceSpecArgs{
				Type:     pulumi.String("LoadBalancer"),
				Selector: apiLabels,
				Ports: corev1.ServicePortArray{
					&corev1.ServicePortArgs{
						Port:       pulumi.Int(80),
						TargetPort: pulumi.Int(httpPort),
					},
				},
			},
		}, onCluster)
		if err != nil {
			return err
		}

		workerLabels := pulumi.StringMap{"app": pulumi.String(appName + "-notification-worker")}
		_, err = appsv1.NewDeployment(ctx, appName+"-notification-worker", &appsv1.DeploymentArgs{
			Metadata: &metav1.ObjectMetaArgs{
				Name:      pulumi.String(appName + "-notification-worker"),
				Namespace: namespace.Metadata.Name(),
			},
			Spec: &appsv1.DeploymentSpecArgs{
				Replicas: pulumi.Int(1),
				Selector: &metav1.LabelSelectorArgs{MatchLabels: workerLabels},
				Template: &corev1.PodTemplateSpecArgs{
					Metadata: &metav1.ObjectMetaArgs{Labels: workerLabels},
					Spec: &corev1.PodSpecArgs{
						Containers: corev1.ContainerArray{
							&corev1.ContainerArgs{
								Name:    pulumi.String("worker"),
								Image:   pulumi.String(s.image),
								Command: pulumi.StringArray{pulumi.String("/app/notification-worker")},
								EnvFrom: env,
							},
						},
					},
				},
			},
		}, onCluster)
		if err != nil {
			return err
		}

		ctx.Export("clusterName", cluster.Name)
		ctx.Export("kubeconfig", cluster.KubeConfigs.Index(pulumi.Int(0)).RawConfig())
		ctx.Export("databaseHost", database.Host)
		ctx.Export("databasePort", database.Port)
		ctx.Export("redisHost", valkey.Host)
		ctx.Export("redisPort", valkey.Port)
		ctx.Export("kafkaHost", kafkaCluster.Host)
		ctx.Export("kafkaPort", kafkaCluster.Port)
		ctx.Export("apiService", apiService.Metadata.Name())
		ctx.Export("vpcId", vpc.ID())

		return nil
	})
}

func newManagedCluster(ctx *pulumi.Context, name, engine, version, size string, nodes int, region string, vpc *digitalocean.Vpc) (*digitalocean.DatabaseCluster, error) {
	return digitalocean.NewDatabaseCluster(ctx, appName+"-"+name, &digitalocean.DatabaseClusterArgs{
		Name:               pulumi.String(appName + "-" + name),
		Engine:             pulumi.String(engine),
		Version:            pulumi.String(version),
		Size:               pulumi.String(size),
		Region:             pulumi.String(region),
		NodeCount:          pulumi.Int(nodes),
		PrivateNetworkUuid: vpc.ID(),
	})
}

// newRegistrySecret lets pods pull from the DigitalOcean registry. It is a
// no-op without an access token.
func newRegistrySecret(ctx *pulumi.Context, namespace *corev1.Namespace, onCluster pulumi.ResourceOption) error {
	accessToken := os.Getenv("DIGITALOCEAN_ACCESS_TOKEN")
	if accessToken == "" {
		accessToken = config.New(ctx, "").Get("digitalocean:token")
	}
	if accessToken == "" {
		return nil
	}

	dockerConfig := map[string]interface{}{
		"auths": map[string]interface{}{
			"registry.digitalocean.com": map[string]interface{}{
				"username": "dummy",
				"password": accessToken,
				"auth":     base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("dummy:%s", accessToken))),
			},
		},
	}
	configJSON, err := json.Marshal(dockerConfig)
	if err != nil {
		return err
	}

	registrySecret, err := corev1.NewSecret(ctx, "registry-secret", &corev1.SecretArgs{
		Metadata: &metav1.ObjectMetaArgs{
			Name:      pulumi.String("regcred"),
			Namespace: namespace.Metadata.Name(),
		},
		Type: pulumi.String("kubernetes.io/dockerconfigjson"),
		Data: pulumi.StringMap{
			".dockerconfigjson": pulumi.String(base64.StdEncoding.EncodeToString(configJSON)),
		},
	}, onCluster)
	if err != nil {
		return err
	}

	// Default service account pulls with the registry secret
	_, err = corev1.NewServiceAccount(ctx, "default-service-account", &corev1.ServiceAccountArgs{
		Metadata: &metav1.ObjectMetaArgs{
			Name:      pulumi.String("default"),
			Namespace: namespace.Metadata.Name(),
		},
		ImagePullSecrets: corev1.LocalObjectReferenceArray{
			&corev1.LocalObjectReferenceArgs{
				Name: registrySecret.Metadata.Name(),
			},
		},
	}, onCluster, pulumi.DependsOn([]pulumi.Resource{registrySecret}))
	return err
}
